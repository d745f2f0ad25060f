// ABOUTME: Tracking commands for submitted proposals and their outcomes
// ABOUTME: Records connects spent, viewed and hired flags, and summary rates
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/spf13/cobra"
)

// NewTrackCmd creates the track command group
func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track submitted proposals",
		Long: `Track what happens after you submit a proposal.

Record the connects you spent, then mark the proposal viewed or hired
as the client responds. 'track stats' summarizes view and hire rates.`,
	}

	cmd.AddCommand(newTrackAddCmd())
	cmd.AddCommand(newTrackListCmd())
	cmd.AddCommand(newTrackStatusCmd())
	cmd.AddCommand(newTrackStatsCmd())
	cmd.AddCommand(newTrackRmCmd())

	return cmd
}

func newTrackAddCmd() *cobra.Command {
	var req core.CreateTrackingRequest

	cmd := &cobra.Command{
		Use:     "add <proposal-id>",
		Short:   "Start tracking a submitted proposal",
		Args:    cobra.ExactArgs(1),
		Example: `  proposals track add 3f1c... --link https://www.upwork.com/... --connected 16 --posted-ago "2 hours"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			req.UserID = userID
			req.ProposalID = args[0]
			t, err := a.Services.Tracking.Create(req)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, t)
			}
			say(cmd, "✓ Tracking %s", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ProposalLink, "link", "", "Link to the submitted proposal")
	cmd.Flags().IntVar(&req.Connected, "connected", 0, "Connects spent")
	cmd.Flags().StringVar(&req.PostedAgo, "posted-ago", "", "How long ago the job was posted")

	return cmd
}

func newTrackListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Services.Tracking.List(userID, page, pageSize)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, result)
			}
			if result.Total == 0 {
				say(cmd, "Nothing tracked yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "CREATED\tCONNECTS\tVIEWED\tHIRED\tPROPOSAL\tID\n")
			fmt.Fprintf(w, "-------\t--------\t------\t-----\t--------\t--\n")
			for _, t := range result.Items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					formatTime(t.CreatedAt), t.Connected, yesNo(t.IsViewed), yesNo(t.IsHired), t.ProposalID, t.ID)
			}
			_ = w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DefaultPageSize, "Records per page")

	return cmd
}

func newTrackStatusCmd() *cobra.Command {
	var viewed, hired bool

	cmd := &cobra.Command{
		Use:     "status <tracking-id>",
		Short:   "Mark a tracked proposal viewed or hired",
		Args:    cobra.ExactArgs(1),
		Example: "  proposals track status 9a2b... --viewed --hired",
		RunE: func(cmd *cobra.Command, args []string) error {
			var viewedPtr, hiredPtr *bool
			if cmd.Flags().Changed("viewed") {
				viewedPtr = &viewed
			}
			if cmd.Flags().Changed("hired") {
				hiredPtr = &hired
			}
			if viewedPtr == nil && hiredPtr == nil {
				return fmt.Errorf("pass --viewed and/or --hired")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			t, err := a.Services.Tracking.UpdateStatus(args[0], viewedPtr, hiredPtr)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, t)
			}
			say(cmd, "✓ %s viewed=%s hired=%s", t.ID, yesNo(t.IsViewed), yesNo(t.IsHired))
			return nil
		},
	}

	cmd.Flags().BoolVar(&viewed, "viewed", false, "Client viewed the proposal")
	cmd.Flags().BoolVar(&hired, "hired", false, "Client hired you")

	return cmd
}

func newTrackStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show view and hire rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			stats, err := a.Services.Tracking.Stats(userID)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tracked:         %d\n", stats.Total)
			fmt.Fprintf(out, "Viewed:          %d (%.1f%%)\n", stats.Viewed, stats.ViewRate*100)
			fmt.Fprintf(out, "Hired:           %d (%.1f%%)\n", stats.Hired, stats.HireRate*100)
			fmt.Fprintf(out, "Connects spent:  %d\n", stats.ConnectsSpent)
			return nil
		},
	}
}

func newTrackRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <tracking-id>",
		Aliases: []string{"delete"},
		Short:   "Stop tracking a proposal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Services.Tracking.Delete(args[0]); err != nil {
				return err
			}
			say(cmd, "✓ Removed tracking record %s", args[0])
			return nil
		},
	}
}
