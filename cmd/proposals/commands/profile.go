// ABOUTME: CLI command to view and update the freelancer profile
// ABOUTME: The profile supplies the proposal sign-off and optional profile links
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/harper/proposal-forge/internal/models"
	"github.com/spf13/cobra"
)

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and manage your freelancer profile",
		Long: `View and manage your freelancer profile.

Your name, title, and signature close every proposal. Profile links
are mentioned when you ask for them with generate --github,
--stackoverflow, or --website.

Examples:
  proposals profile
  proposals profile --format json
  proposals profile set --name "Sam Rivera" --title "Full-Stack Developer"
  proposals profile set --signature "Cheers" --github https://github.com/sam`,
		RunE: runProfileShow,
	}

	var update models.FreelancerProfile
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update profile fields. Only the flags you pass are changed.

A name is required before the profile can be saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (models.FreelancerProfile{}) {
				return fmt.Errorf("nothing to update; pass at least one flag")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			profile, err := a.Services.Profile.Save(update)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, profile)
			}
			say(cmd, "✓ Profile updated")
			return nil
		},
	}

	setCmd.Flags().StringVar(&update.Name, "name", "", "Your name")
	setCmd.Flags().StringVar(&update.Title, "title", "", "Professional title")
	setCmd.Flags().StringVar(&update.Signature, "signature", "", "Closing phrase (default \"Best Regards\")")
	setCmd.Flags().StringVar(&update.GithubURL, "github", "", "GitHub profile URL")
	setCmd.Flags().StringVar(&update.StackOverflowURL, "stackoverflow", "", "Stack Overflow profile URL")
	setCmd.Flags().StringVar(&update.WebsiteURL, "website", "", "Personal website URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE:  runProfileShow,
	})
	cmd.AddCommand(setCmd)

	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	profile, err := a.Services.Profile.Get()
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return printJSON(cmd, profile)
	}
	if profile.Name == "" {
		say(cmd, "No profile yet. Run 'proposals profile set --name \"Your Name\"'")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tVALUE\n")
	fmt.Fprintf(w, "-----\t-----\n")
	fmt.Fprintf(w, "Name\t%s\n", profile.Name)
	fmt.Fprintf(w, "Title\t%s\n", orNone(profile.Title))
	fmt.Fprintf(w, "Signature\t%s\n", orNone(profile.Signature))
	fmt.Fprintf(w, "GitHub\t%s\n", orNone(profile.GithubURL))
	fmt.Fprintf(w, "Stack Overflow\t%s\n", orNone(profile.StackOverflowURL))
	fmt.Fprintf(w, "Website\t%s\n", orNone(profile.WebsiteURL))
	_ = w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\nSign-off:\n%s\n", profile.SignOff())
	return nil
}
