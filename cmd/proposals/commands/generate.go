// ABOUTME: Generate and similar commands for writing proposals and ranking the portfolio
// ABOUTME: Job text comes from arguments, a file, or stdin
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		file          string
		clientName    string
		projectIDs    []string
		github        bool
		stackOverflow bool
		website       bool
	)

	cmd := &cobra.Command{
		Use:   "generate [job description]",
		Short: "Generate a proposal for a job posting",
		Long: `Generate a proposal for a job posting.

By default the most relevant portfolio projects are found by semantic
similarity and cited with links. Pass --projects to cite exactly the
projects you choose instead; --client, --github, --stackoverflow, and
--website then personalize the proposal.

Examples:
  proposals generate "Need a React developer for an analytics dashboard..."
  proposals generate --file job.txt
  pbpaste | proposals generate
  proposals generate --file job.txt --projects 3f1c...,9a2b... --client Dana --github`,
		RunE: func(cmd *cobra.Command, args []string) error {
			description, err := readText(cmd, args, file)
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			var result *core.GenerateResult
			if len(projectIDs) > 0 {
				result, err = a.Services.Proposals.GenerateCustom(cmd.Context(), core.CustomGenerateRequest{
					UserID:               userID,
					JobDescription:       description,
					ClientName:           clientName,
					SelectedProjectIDs:   projectIDs,
					IncludeGithub:        github,
					IncludeStackOverflow: stackOverflow,
					IncludeWebsite:       website,
				})
			} else {
				result, err = a.Services.Proposals.Generate(cmd.Context(), core.GenerateRequest{
					UserID:         userID,
					JobDescription: description,
				})
			}
			if err != nil {
				return fmt.Errorf("generating proposal: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, result.Proposal)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", result.Proposal.GeneratedProposal)
			if !quiet {
				fmt.Fprintf(out, "\n---\nProposal %s", result.Proposal.ID)
				if n := len(result.Included); n > 0 {
					fmt.Fprintf(out, " cites %d project(s)", n)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the job description from a file")
	cmd.Flags().StringVar(&clientName, "client", "", "Client name for the greeting (custom proposals)")
	cmd.Flags().StringSliceVar(&projectIDs, "projects", nil, "Portfolio project IDs to cite (comma-separated)")
	cmd.Flags().BoolVar(&github, "github", false, "Mention your GitHub profile (custom proposals)")
	cmd.Flags().BoolVar(&stackOverflow, "stackoverflow", false, "Mention your Stack Overflow profile (custom proposals)")
	cmd.Flags().BoolVar(&website, "website", false, "Mention your website (custom proposals)")

	return cmd
}

// NewSimilarCmd creates the similar command
func NewSimilarCmd() *cobra.Command {
	var (
		file string
		topK int
	)

	cmd := &cobra.Command{
		Use:   "similar [job description]",
		Short: "Rank portfolio projects against a job posting",
		Long: `Rank portfolio projects by semantic similarity to a job posting.

No score cutoff is applied, so this shows how every embedded project
compares. Projects whose embeddings are missing or have the wrong
dimension are skipped and counted.

Examples:
  proposals similar "Flutter app with offline sync"
  proposals similar --file job.txt --top-k 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(topK, "--top-k"); err != nil {
				return err
			}
			description, err := readText(cmd, args, file)
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			outcome, err := a.Services.Portfolio.Similar(cmd.Context(), userID, description, topK)
			if err != nil {
				return fmt.Errorf("ranking portfolio: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, outcome)
			}
			if len(outcome.Matches) == 0 {
				say(cmd, "No embedded portfolio projects to compare")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "SCORE\tNAME\tTYPE\tID\n")
			fmt.Fprintf(w, "-----\t----\t----\t--\n")
			for _, m := range outcome.Matches {
				fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\n", m.Score, truncate(m.Project.Name, 40), m.Project.ProjectType, m.Project.ID)
			}
			_ = w.Flush()

			if outcome.Skipped > 0 {
				say(cmd, "\nSkipped %d project(s) with unusable embeddings; run 'proposals portfolio reindex'", outcome.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the job description from a file")
	cmd.Flags().IntVar(&topK, "top-k", 3, "Number of projects to show")

	return cmd
}
