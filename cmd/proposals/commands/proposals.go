// ABOUTME: Proposal history commands: list, show, search, stats, and remove
// ABOUTME: Lists show short previews; show prints the full proposal text
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harper/proposal-forge/internal/models"
	"github.com/spf13/cobra"
)

// NewProposalsCmd creates the proposals command group
func NewProposalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"history"},
		Short:   "Browse generated proposals",
	}

	cmd.AddCommand(newProposalsListCmd())
	cmd.AddCommand(newProposalsShowCmd())
	cmd.AddCommand(newProposalsSearchCmd())
	cmd.AddCommand(newProposalsStatsCmd())
	cmd.AddCommand(newProposalsRmCmd())

	return cmd
}

func newProposalsListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Services.Proposals.List(userID, page, pageSize)
			if err != nil {
				return fmt.Errorf("listing proposals: %w", err)
			}
			return printProposalPage(cmd, result, "No proposals yet. Try 'proposals generate'")
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DefaultPageSize, "Proposals per page")

	return cmd
}

func newProposalsSearchCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search proposals by title, job description, or text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Services.Proposals.Search(userID, query, page, pageSize)
			if err != nil {
				return fmt.Errorf("searching proposals: %w", err)
			}
			return printProposalPage(cmd, result, fmt.Sprintf("No proposals match %q", query))
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DefaultPageSize, "Proposals per page")

	return cmd
}

func printProposalPage(cmd *cobra.Command, result models.Page[*models.Proposal], empty string) error {
	if wantJSON(cmd) {
		return printJSON(cmd, result)
	}
	if result.Total == 0 {
		say(cmd, "%s", empty)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CREATED\tTITLE\tBUDGET\tPROJECTS\tID\n")
	fmt.Fprintf(w, "-------\t-----\t------\t--------\t--\n")
	for _, p := range result.Items {
		budget := p.BudgetRange
		if budget == "" {
			budget = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			formatTime(p.CreatedAt),
			truncate(p.JobTitle, 40),
			truncate(budget, 20),
			len(p.IncludedProjects),
			p.ID)
	}
	_ = w.Flush()

	say(cmd, "\nPage %d of %d (%d proposal(s))", result.Page, max(result.TotalPages, 1), result.Total)
	return nil
}

func newProposalsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			p, err := a.Services.Proposals.Get(args[0])
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, p)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", p.JobTitle)
			fmt.Fprintf(out, "%s\n", strings.Repeat("=", len([]rune(p.JobTitle))))
			if p.BudgetRange != "" {
				fmt.Fprintf(out, "Budget:   %s\n", p.BudgetRange)
			}
			if p.ProjectDuration != "" {
				fmt.Fprintf(out, "Duration: %s\n", p.ProjectDuration)
			}
			fmt.Fprintf(out, "Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
			for _, ip := range p.IncludedProjects {
				fmt.Fprintf(out, "Cites:    %s (%.3f)\n", ip.Name, ip.Score)
			}
			fmt.Fprintf(out, "\n%s\n", p.GeneratedProposal)
			return nil
		},
	}
}

func newProposalsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show proposal counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			stats, err := a.Services.Proposals.Stats(userID)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total proposals:   %d\n", stats.Total)
			fmt.Fprintf(out, "Last 30 days:      %d\n", stats.Last30Days)
			if stats.LatestAt != nil {
				fmt.Fprintf(out, "Latest:            %s\n", formatTime(*stats.LatestAt))
			}
			return nil
		},
	}
}

func newProposalsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a proposal and its tracking",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Services.Proposals.Delete(args[0]); err != nil {
				return err
			}
			say(cmd, "✓ Deleted proposal %s", args[0])
			return nil
		},
	}
}
