// ABOUTME: Portfolio commands to add, list, show, update, remove, import, and reindex projects
// ABOUTME: Import reads YAML project files matched by glob patterns, with a progress bar
package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewPortfolioCmd creates the portfolio command group
func NewPortfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"pf"},
		Short:   "Manage portfolio projects",
		Long: `Manage the portfolio projects cited in proposals.

New and edited projects are analyzed automatically: tags, technologies,
project type, complexity, a short summary, and a semantic embedding
are derived from the description.`,
	}

	cmd.AddCommand(newPortfolioAddCmd())
	cmd.AddCommand(newPortfolioListCmd())
	cmd.AddCommand(newPortfolioShowCmd())
	cmd.AddCommand(newPortfolioUpdateCmd())
	cmd.AddCommand(newPortfolioRmCmd())
	cmd.AddCommand(newPortfolioImportCmd())
	cmd.AddCommand(newPortfolioReindexCmd())

	return cmd
}

func newPortfolioAddCmd() *cobra.Command {
	var req core.CreateProjectRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a portfolio project",
		Example: `  proposals portfolio add --name "Fleet Tracker" \
    --description "Real-time vehicle tracking dashboard built with React and Go..." \
    --github https://github.com/me/fleet --featured`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			req.UserID = userID
			project, err := a.Services.Portfolio.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("adding project: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, project)
			}
			say(cmd, "✓ Added %s (%s, %s) %s", project.Name, project.ProjectType, project.ComplexityLevel, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&req.Description, "description", "", "What the project does and how it was built")
	cmd.Flags().StringVar(&req.GithubURL, "github", "", "Repository link")
	cmd.Flags().StringVar(&req.LiveURL, "live", "", "Live site link")
	cmd.Flags().StringVar(&req.AppStoreURL, "app-store", "", "App store link")
	cmd.Flags().StringSliceVar(&req.Images, "image", nil, "Screenshot URL (can be repeated)")
	cmd.Flags().BoolVar(&req.IsFeatured, "featured", false, "Mark the project as featured")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newPortfolioListCmd() *cobra.Command {
	var (
		projectType string
		featured    bool
		page        int
		pageSize    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List portfolio projects",
		Example: `  proposals portfolio list
  proposals portfolio list --type mobile_app
  proposals portfolio list --featured --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.ProjectFilter{}
			if projectType != "" {
				t := models.ProjectType(projectType)
				if !slices.Contains(models.ProjectTypes, t) {
					return fmt.Errorf("unknown project type %q", projectType)
				}
				filter.ProjectType = t
			}
			if cmd.Flags().Changed("featured") {
				filter.Featured = &featured
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Services.Portfolio.List(userID, filter, page, pageSize)
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, result)
			}
			if result.Total == 0 {
				say(cmd, "No portfolio projects found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tTYPE\tLEVEL\tFEATURED\tEMBEDDED\tID\n")
			fmt.Fprintf(w, "----\t----\t-----\t--------\t--------\t--\n")
			for _, p := range result.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					truncate(p.Name, 30),
					p.ProjectType,
					p.ComplexityLevel,
					yesNo(p.IsFeatured),
					yesNo(p.HasEmbedding()),
					p.ID)
			}
			_ = w.Flush()

			say(cmd, "\nPage %d of %d (%d project(s))", result.Page, max(result.TotalPages, 1), result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectType, "type", "", "Filter by project type")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured projects (--featured=false for the rest)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DefaultPageSize, "Projects per page")

	return cmd
}

func newPortfolioShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a portfolio project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			p, err := a.Services.Portfolio.Get(args[0])
			if err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd, p)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "FIELD\tVALUE\n")
			fmt.Fprintf(w, "-----\t-----\n")
			fmt.Fprintf(w, "ID\t%s\n", p.ID)
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			fmt.Fprintf(w, "Type\t%s\n", p.ProjectType)
			fmt.Fprintf(w, "Complexity\t%s\n", p.ComplexityLevel)
			fmt.Fprintf(w, "Featured\t%s\n", yesNo(p.IsFeatured))
			fmt.Fprintf(w, "Technologies\t%s\n", orNone(strings.Join(p.Technologies, ", ")))
			fmt.Fprintf(w, "Tags\t%s\n", orNone(strings.Join(p.Tags, ", ")))
			fmt.Fprintf(w, "Links\t%s\n", orNone(strings.Join(p.URLs(), " ")))
			fmt.Fprintf(w, "Embedding\t%d dimensions\n", len(p.Embedding))
			fmt.Fprintf(w, "Updated\t%s\n", formatTime(p.UpdatedAt))
			_ = w.Flush()

			out := cmd.OutOrStdout()
			if p.AISummary != "" {
				fmt.Fprintf(out, "\nSummary:\n%s\n", p.AISummary)
			}
			fmt.Fprintf(out, "\nDescription:\n%s\n", p.Description)
			return nil
		},
	}
}

func newPortfolioUpdateCmd() *cobra.Command {
	var (
		name, description, github, live, appStore string
		images                                    []string
		featured                                  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a portfolio project",
		Long: `Update a portfolio project. Only the flags you pass are changed.

Changing the name or description re-runs the analysis and refreshes
the embedding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := core.UpdateProjectRequest{}
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("github") {
				req.GithubURL = &github
			}
			if flags.Changed("live") {
				req.LiveURL = &live
			}
			if flags.Changed("app-store") {
				req.AppStoreURL = &appStore
			}
			if flags.Changed("image") {
				req.Images = images
			}
			if flags.Changed("featured") {
				req.IsFeatured = &featured
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if (req.Name != nil || req.Description != nil) && !a.AIEnabled {
				return requireAI(a)
			}

			project, err := a.Services.Portfolio.Update(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("updating project: %w", err)
			}
			if wantJSON(cmd) {
				return printJSON(cmd, project)
			}
			say(cmd, "✓ Updated %s", project.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&github, "github", "", "Repository link")
	cmd.Flags().StringVar(&live, "live", "", "Live site link")
	cmd.Flags().StringVar(&appStore, "app-store", "", "App store link")
	cmd.Flags().StringSliceVar(&images, "image", nil, "Screenshot URLs (replaces the list)")
	cmd.Flags().BoolVar(&featured, "featured", false, "Featured flag")

	return cmd
}

func newPortfolioRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a portfolio project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Services.Portfolio.Delete(args[0]); err != nil {
				return err
			}
			say(cmd, "✓ Removed project %s", args[0])
			return nil
		},
	}
}

// projectFile is the YAML layout accepted by portfolio import: either a
// single project or a list under "projects"
type projectFile struct {
	Projects []importedProject `yaml:"projects"`
}

type importedProject struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	GithubURL   string   `yaml:"github_url"`
	LiveURL     string   `yaml:"live_url"`
	AppStoreURL string   `yaml:"app_store_url"`
	Images      []string `yaml:"images"`
	Featured    bool     `yaml:"featured"`
}

func parseProjectFile(data []byte) ([]importedProject, error) {
	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Projects) > 0 {
		return file.Projects, nil
	}

	var single importedProject
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	if single.Name == "" {
		return nil, fmt.Errorf("no projects found")
	}
	return []importedProject{single}, nil
}

// expandPatterns resolves glob patterns (with ** support) into a sorted,
// de-duplicated file list
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func newPortfolioImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <pattern>...",
		Short: "Import projects from YAML files",
		Long: `Import portfolio projects from YAML files.

Each file holds one project, or several under a "projects" key:

  projects:
    - name: Fleet Tracker
      description: Real-time vehicle tracking dashboard...
      github_url: https://github.com/me/fleet
      featured: true

Patterns support ** for recursive matching. Quote them so the shell
does not expand them first.`,
		Example: `  proposals portfolio import 'projects/**/*.yaml'
  proposals portfolio import shop.yaml blog.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %s", strings.Join(args, " "))
			}

			var projects []importedProject
			for _, f := range files {
				data, err := os.ReadFile(f) // #nosec G304
				if err != nil {
					return fmt.Errorf("reading %s: %w", f, err)
				}
				parsed, err := parseProjectFile(data)
				if err != nil {
					return fmt.Errorf("parsing %s: %w", f, err)
				}
				projects = append(projects, parsed...)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			bar := newProgressBar(cmd, len(projects), "Importing")
			var failed int
			for _, p := range projects {
				_, err := a.Services.Portfolio.Create(cmd.Context(), core.CreateProjectRequest{
					UserID:      userID,
					Name:        p.Name,
					Description: p.Description,
					GithubURL:   p.GithubURL,
					LiveURL:     p.LiveURL,
					AppStoreURL: p.AppStoreURL,
					Images:      p.Images,
					IsFeatured:  p.Featured,
				})
				if err != nil {
					failed++
					a.Logger.Error("import failed", "project", p.Name, "err", err)
				}
				_ = bar.Add(1)
			}

			say(cmd, "Imported %d of %d project(s) from %d file(s)", len(projects)-failed, len(projects), len(files))
			if failed > 0 {
				return fmt.Errorf("%d project(s) failed to import", failed)
			}
			return nil
		},
	}

	return cmd
}

func newPortfolioReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Recompute embeddings for every project",
		Long: `Recompute the embedding of every portfolio project.

Run this after changing PROPOSALS_EMBEDDING_MODEL, or when 'similar'
reports skipped projects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			var (
				bar  *progressbar.ProgressBar
				once sync.Once
			)
			result, err := a.Services.Portfolio.Reindex(cmd.Context(), userID, func(done, total int) {
				once.Do(func() { bar = newProgressBar(cmd, total, "Reindexing") })
				_ = bar.Set(done)
			})
			if err != nil {
				return fmt.Errorf("reindexing: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, result)
			}
			say(cmd, "Reindexed %d of %d project(s)", result.Updated, result.Total)
			if result.Failed > 0 {
				return fmt.Errorf("%d project(s) could not be embedded", result.Failed)
			}
			return nil
		},
	}
}

func newProgressBar(cmd *cobra.Command, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetVisibility(!quiet),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
