// ABOUTME: Sync commands for backing up data to Charm cloud
// ABOUTME: Provides status, push, pull, keys, and wipe
package commands

import (
	"fmt"

	"github.com/harper/proposal-forge/internal/app"
	"github.com/harper/proposal-forge/internal/charm"
	"github.com/harper/proposal-forge/internal/config"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up and restore via Charm cloud",
		Long: `Back up and restore your data with Charm cloud.

Charm authenticates with your SSH keys. 'sync push' uploads a snapshot
of the local database; 'sync pull' downloads it on another machine and
merges it into the local database.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncKeysCmd())
	cmd.AddCommand(newSyncWipeCmd())

	return cmd
}

func openCharm() (*charm.Client, *config.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := charm.NewClient(charm.ConfigFrom(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, cfg, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Run 'proposals sync keys' to check your SSH keys")
				return nil
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "User ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", cfg.CharmHost)
			fmt.Fprintf(out, "Database: %s\n", cfg.CharmDBName)
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local database to Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			snap, err := a.Store.Export()
			if err != nil {
				return err
			}

			client, err := charm.NewClient(charm.ConfigFrom(a.Config))
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}
			defer func() { _ = client.Close() }()

			n, err := client.PushSnapshot(snap)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}
			say(cmd, "✓ Pushed %d record(s)", n)
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Download from Charm cloud and merge into the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			client, err := charm.NewClient(charm.ConfigFrom(a.Config))
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}
			defer func() { _ = client.Close() }()

			snap, err := client.PullSnapshot()
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}
			if err := a.Store.Import(snap); err != nil {
				return err
			}

			proposals, projects, tracking := snap.Counts()
			say(cmd, "✓ Pulled %d proposal(s), %d project(s), %d tracking record(s), %d document(s)",
				proposals, projects, tracking, len(snap.Documents))
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe the local Charm cache",
		Long: `Wipe the locally cached Charm data.

The local proposals database and the cloud copy are left intact; the
cache is re-synced on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !confirm {
				fmt.Fprintln(out, "This will wipe the local Charm cache!")
				fmt.Fprintln(out, "Run with --confirm to proceed")
				return nil
			}

			client, _, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}
			fmt.Fprintln(out, "Local Charm cache wiped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			keys, err := client.GetAuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			out := cmd.OutOrStdout()
			if keys == "" {
				fmt.Fprintln(out, "No authorized keys found")
				return nil
			}
			fmt.Fprintln(out, "Authorized SSH keys:")
			fmt.Fprintln(out, keys)
			return nil
		},
	}
}
