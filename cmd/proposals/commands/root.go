// ABOUTME: Root command, global flags, and shared app bootstrap for the CLI
// ABOUTME: Global flags control log verbosity, output format, and the acting user
package commands

import (
	"fmt"

	"github.com/harper/proposal-forge/internal/app"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/spf13/cobra"
)

const banner = `
███████╗ ██████╗ ██████╗  ██████╗ ███████╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝
█████╗  ██║   ██║██████╔╝██║  ███╗█████╗
██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝
██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗
╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝
`

var (
	verbose      bool
	quiet        bool
	outputFormat string
	userID       string
)

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Write freelance proposals backed by your portfolio",
		Long: banner + `
Proposals turns job postings into tailored freelance proposals.

Your portfolio projects are analyzed and embedded once; each new job
description is matched against them so the most relevant work is
cited with links. Proposal history, submission tracking, and your
freelancer profile live in a local SQLite database that can be
backed up to Charm cloud.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "table", "json":
				return nil
			default:
				return fmt.Errorf("--format must be auto, table, or json, got %q", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "User ID (default from PROPOSALS_DEFAULT_USER)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewSimilarCmd())
	cmd.AddCommand(NewPortfolioCmd())
	cmd.AddCommand(NewProposalsCmd())
	cmd.AddCommand(NewTrackCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewDocumentsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// openApp opens storage and services with logging tied to the global flags
func openApp(cmd *cobra.Command) (*app.App, error) {
	level := ""
	if verbose || quiet {
		level = logging.LevelForFlags(verbose, quiet, "")
	}
	return app.Open(app.Options{LogOutput: cmd.ErrOrStderr(), LogLevel: level})
}

// requireAI fails early when a command needs the OpenAI client
func requireAI(a *app.App) error {
	if !a.AIEnabled {
		return fmt.Errorf("%w: set it in the environment or a .env file", app.ErrNoAPIKey)
	}
	return nil
}
