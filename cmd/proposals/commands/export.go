// ABOUTME: Export and import commands for the local dataset
// ABOUTME: Snapshots carry embeddings so a restore needs no API calls
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to JSON or YAML",
		Long: `Export the profile, proposals, portfolio, and tracking records.

The format follows the --output extension (.yaml/.yml or .json).
Without --output the snapshot is written to stdout as JSON.

Examples:
  proposals export --output backup.yaml
  proposals export > backup.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if output == "" {
				snap, err := a.Store.Export()
				if err != nil {
					return err
				}
				return printJSON(cmd, snap)
			}

			switch strings.ToLower(filepath.Ext(output)) {
			case ".yaml", ".yml":
				err = a.Store.ExportToYAML(output)
			case ".json":
				err = a.Store.ExportToJSON(output)
			default:
				return fmt.Errorf("unsupported export format %q (use .json, .yaml, or .yml)", filepath.Ext(output))
			}
			if err != nil {
				return err
			}

			say(cmd, "✓ Exported to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.json, .yaml, .yml)")

	return cmd
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import data from an export file",
		Long: `Import a JSON or YAML export. Records are upserted by ID, so
importing the same file twice is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			snap, err := a.Store.ImportFromFile(args[0])
			if err != nil {
				return err
			}

			proposals, projects, tracking := snap.Counts()
			say(cmd, "✓ Imported %d proposal(s), %d project(s), %d tracking record(s), %d document(s)",
				proposals, projects, tracking, len(snap.Documents))
			return nil
		},
	}
}
