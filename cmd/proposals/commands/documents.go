// ABOUTME: Document commands to add reference files, list, show, remove, and ask questions about them
// ABOUTME: Search answers from the most similar documents and prints the sources it used
package commands

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/spf13/cobra"
)

// NewDocumentsCmd creates the docs command group
func NewDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "Store reference documents and ask questions about them",
		Long: `Store reference documents (rate cards, contracts, notes) and ask
questions about them.

Each document is summarized and embedded when added. Questions are
answered from the documents most similar to the question.`,
	}

	cmd.AddCommand(newDocsAddCmd())
	cmd.AddCommand(newDocsListCmd())
	cmd.AddCommand(newDocsShowCmd())
	cmd.AddCommand(newDocsSearchCmd())
	cmd.AddCommand(newDocsRmCmd())

	return cmd
}

func newDocsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <pattern>...",
		Short: "Add text files as documents",
		Long: `Add text files as documents. The file name becomes the document
name. Files that are not valid UTF-8 text are skipped.

Patterns support ** for recursive matching.`,
		Example: `  proposals docs add rates.md
  proposals docs add 'notes/**/*.txt'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %s", strings.Join(args, " "))
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			if err := requireAI(a); err != nil {
				return err
			}

			bar := newProgressBar(cmd, len(files), "Adding")
			var failed int
			for _, f := range files {
				if err := addDocumentFile(cmd, a.Services.Documents, f); err != nil {
					failed++
					a.Logger.Error("add failed", "file", f, "err", err)
				}
				_ = bar.Add(1)
			}

			say(cmd, "Added %d of %d document(s)", len(files)-failed, len(files))
			if failed > 0 {
				return fmt.Errorf("%d document(s) failed to add", failed)
			}
			return nil
		},
	}
}

func addDocumentFile(cmd *cobra.Command, docs *core.DocumentService, path string) error {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("not UTF-8 text")
	}
	_, err = docs.Add(cmd.Context(), core.DocumentInput{
		UserID:   userID,
		Name:     filepath.Base(path),
		MimeType: detectMimeType(path, data),
		Text:     string(data),
	})
	return err
}

// detectMimeType uses the extension when it is known and sniffs the content otherwise
func detectMimeType(path string, data []byte) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		t = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return models.DefaultMimeType
}

func newDocsListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Services.Documents.List(userID, page, pageSize)
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, result)
			}
			if result.Total == 0 {
				say(cmd, "No documents yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tTYPE\tEMBEDDED\tADDED\tID\n")
			fmt.Fprintf(w, "----\t----\t--------\t-----\t--\n")
			for _, d := range result.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					truncate(d.Name, 30),
					d.MimeType,
					yesNo(d.HasEmbedding()),
					formatTime(d.CreatedAt),
					d.ID)
			}
			_ = w.Flush()

			say(cmd, "\nPage %d of %d (%d document(s))", result.Page, max(result.TotalPages, 1), result.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DefaultPageSize, "Documents per page")

	return cmd
}

func newDocsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			d, err := a.Services.Documents.Get(args[0])
			if err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd, d)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", d.Name, d.MimeType)
			fmt.Fprintf(out, "ID: %s  Embedding: %d dimensions  Added: %s\n", d.ID, len(d.Embedding), formatTime(d.CreatedAt))
			if d.Summary != "" {
				fmt.Fprintf(out, "\nSummary:\n%s\n", d.Summary)
			}
			fmt.Fprintf(out, "\n%s\n", d.Content)
			return nil
		},
	}
}

func newDocsSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Answer a question from your documents",
		Example: `  proposals docs search "what is my weekend rate?"
  proposals docs search --limit 2 "which contract covers hosting?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "--limit"); err != nil {
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

			answer, err := a.Services.Documents.Search(cmd.Context(), core.SearchRequest{
				UserID: userID,
				Query:  strings.Join(args, " "),
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("searching documents: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd, answer)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Answer)
			if len(answer.Documents) > 0 {
				fmt.Fprintln(out, "\nSources:")
				for _, m := range answer.Documents {
					fmt.Fprintf(out, "  %.3f  %s (%s)\n", m.Score, m.Document.Name, m.Document.ID)
				}
			}
			if answer.Skipped > 0 {
				say(cmd, "\n%d document(s) could not be compared; check the embedding model", answer.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of documents used as context")

	return cmd
}

func newDocsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Services.Documents.Delete(args[0]); err != nil {
				return err
			}
			say(cmd, "✓ Removed document %s", args[0])
			return nil
		},
	}
}
