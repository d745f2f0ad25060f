// ABOUTME: Tests for portfolio command helpers and structure
// ABOUTME: Covers YAML project files, glob expansion, and subcommand flags

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestParseProjectFile(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "single project",
			data:      "name: Fleet Tracker\ndescription: Real-time tracking\nfeatured: true\n",
			wantNames: []string{"Fleet Tracker"},
		},
		{
			name: "project list",
			data: `projects:
  - name: Shop
    description: Storefront
    github_url: https://github.com/me/shop
  - name: Blog
    description: Static site
`,
			wantNames: []string{"Shop", "Blog"},
		},
		{
			name:    "no name",
			data:    "description: orphan\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			data:    "name: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProjectFile([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseProjectFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("parseProjectFile() returned %d projects, want %d", len(got), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("project[%d].Name = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestParseProjectFile_Fields(t *testing.T) {
	got, err := parseProjectFile([]byte("name: App\ndescription: Mobile\napp_store_url: https://apps.example/app\nimages: [a.png, b.png]\nfeatured: true\n"))
	if err != nil {
		t.Fatalf("parseProjectFile() error = %v", err)
	}
	p := got[0]
	if p.AppStoreURL != "https://apps.example/app" || !p.Featured || len(p.Images) != 2 {
		t.Errorf("parseProjectFile() = %+v", p)
	}
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"a.yaml", "nested/b.yaml", "nested/deep/c.yaml", "notes.txt"} {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte("name: x\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	files, err := expandPatterns([]string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a.yaml"),
	})
	if err != nil {
		t.Fatalf("expandPatterns() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expandPatterns() = %v, want 3 unique yaml files", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Errorf("expandPatterns() not sorted: %v", files)
		}
	}

	if _, err := expandPatterns([]string{"[unclosed"}); err == nil {
		t.Error("expandPatterns() should reject a bad pattern")
	}
}

func TestPortfolioCmd_Subcommands(t *testing.T) {
	cmd := NewPortfolioCmd()

	want := map[string]bool{"add": false, "list": false, "show": false, "update": false, "rm": false, "import": false, "reindex": false}
	for _, sub := range cmd.Commands() {
		want[sub.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("portfolio subcommand %q not found", name)
		}
	}
}

func TestPortfolioAddCmd_RequiredFlags(t *testing.T) {
	cmd := newPortfolioAddCmd()

	for _, name := range []string{"name", "description"} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("--%s flag not found", name)
		}
		if _, ok := flag.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
			t.Errorf("--%s should be required", name)
		}
	}
}
