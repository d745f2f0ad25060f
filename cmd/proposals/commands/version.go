// ABOUTME: Version command to display build information
// ABOUTME: Prints version, commit, build date, and the Go runtime that built the binary
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionInfo = VersionInfo{Version: "dev", Commit: "none", Date: "unknown"}

// VersionInfo is stamped into the binary at release time
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("Proposal Forge %s\nCommit: %s\nBuilt:  %s\nGo:     %s",
		v.Version, v.Commit, v.Date, runtime.Version())
}

// SetVersion records build information; main calls it before Execute
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), versionInfo.Version)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionInfo)
			return err
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
