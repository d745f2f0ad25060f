// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, formatTime, input reading, and format selection

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"very short maxLen", "hello", 2, "he"},
		{"maxLen equals 3", "hello", 3, "hel"},
		{"empty string", "", 10, ""},
		{"unicode counted by rune", "проект для клиента", 9, "проект..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero", time.Time{}, "-"},
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
		{"date", time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC), "2020-03-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.in); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(1, "--top-k"); err != nil {
		t.Errorf("validatePositiveInt(1) error = %v", err)
	}
	err := validatePositiveInt(0, "--top-k")
	if err == nil || !strings.Contains(err.Error(), "--top-k") {
		t.Errorf("validatePositiveInt(0) error = %v, want error naming the flag", err)
	}
}

func TestReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	if err := os.WriteFile(path, []byte("  from a file \n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "file wins", args: []string{"ignored"}, file: path, want: "from a file"},
		{name: "args joined", args: []string{"build", "an", "app"}, want: "build an app"},
		{name: "stdin", stdin: "piped text\n", want: "piped text"},
		{name: "blank stdin", stdin: "  \n", wantErr: true},
		{name: "missing file", file: filepath.Join(t.TempDir(), "nope.txt"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.stdin))

			got, err := readText(cmd, tt.args, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWantJSON(t *testing.T) {
	original := outputFormat
	defer func() { outputFormat = original }()

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	tests := []struct {
		format string
		want   bool
	}{
		{"json", true},
		{"table", false},
		{"auto", true}, // a buffer is not a terminal
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			outputFormat = tt.format
			if got := wantJSON(cmd); got != tt.want {
				t.Errorf("wantJSON() with %s = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestSay_Quiet(t *testing.T) {
	original := quiet
	defer func() { quiet = original }()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	quiet = true
	say(cmd, "hidden %d", 1)
	if out.Len() != 0 {
		t.Errorf("say() printed %q in quiet mode", out.String())
	}

	quiet = false
	say(cmd, "shown %d", 2)
	if out.String() != "shown 2\n" {
		t.Errorf("say() = %q, want %q", out.String(), "shown 2\n")
	}
}
