// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output format selection, JSON printing, time formatting, and input reading
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// wantJSON reports whether output should be JSON. In auto mode JSON is
// used whenever stdout is not a terminal.
func wantJSON(cmd *cobra.Command) bool {
	switch outputFormat {
	case "json":
		return true
	case "table":
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return err
}

// say prints a status line unless --quiet is set
func say(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// readText returns args joined, the contents of file, or stdin, in that order
func readText(cmd *cobra.Command, args []string, file string) (string, error) {
	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file) // #nosec G304
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text provided")
	}
	return text, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
