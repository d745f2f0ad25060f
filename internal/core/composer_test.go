// ABOUTME: Tests for ProposalComposer prompts and post-processing
// ABOUTME: Covers markdown stripping, link insertion, fallback, and custom proposals
package core

import (
	"context"
	"strings"
	"testing"

	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
)

func TestStripMarkdownBold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"I **really** can", "I really can"},
		{"**a** and **b**", "a and b"},
		{"dangling ** marker", "dangling  marker"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripMarkdownBold(tt.in); got != tt.want {
			t.Errorf("StripMarkdownBold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBold(t *testing.T) {
	if got := Bold("Best Regards"); got != closingMarker {
		t.Errorf("Bold(Best Regards) = %q, want %q", got, closingMarker)
	}
	if got := Bold("Hi there") + ","; got != greeting("") {
		t.Errorf("Bold(Hi there) = %q", got)
	}
	if got := Bold("v2.0!"); got != "𝐯𝟐.𝟎!" {
		t.Errorf("Bold(v2.0!) = %q", got)
	}
}

func TestInsertPortfolioLinks(t *testing.T) {
	projects := []*models.PortfolioProject{
		{Name: "Admin", GithubURL: "https://github.com/x/admin", LiveURL: "https://admin.example"},
		{Name: "Shop", AppStoreURL: "https://apps.example/shop"},
		{Name: "Secret"},
	}

	t.Run("before sign-off", func(t *testing.T) {
		proposal := "𝐇𝐢 𝐭𝐡𝐞𝐫𝐞,\n\nBody text.\n\n𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬,\nSam"
		got := InsertPortfolioLinks(proposal, projects)

		want := "𝐇𝐢 𝐭𝐡𝐞𝐫𝐞,\n\nBody text.\n\n" + relevantWorkHeader +
			"\n✔ Admin: https://github.com/x/admin\n✔ Shop: https://apps.example/shop\n\n𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬,\nSam"
		if got != want {
			t.Errorf("InsertPortfolioLinks() =\n%s\nwant\n%s", got, want)
		}
		if strings.Contains(got, "Secret") {
			t.Error("projects without URLs should be left out")
		}
	})

	t.Run("appended without sign-off", func(t *testing.T) {
		got := InsertPortfolioLinks("Body text.\n", projects[:1])
		want := "Body text.\n\n" + relevantWorkHeader + "\n✔ Admin: https://github.com/x/admin"
		if got != want {
			t.Errorf("InsertPortfolioLinks() = %q, want %q", got, want)
		}
	})

	t.Run("no links", func(t *testing.T) {
		in := "Body\n\n𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬"
		if got := InsertPortfolioLinks(in, projects[2:]); got != in {
			t.Errorf("InsertPortfolioLinks() = %q, want unchanged", got)
		}
		if got := InsertPortfolioLinks(in, nil); got != in {
			t.Errorf("InsertPortfolioLinks(nil) = %q, want unchanged", got)
		}
	})
}

func TestCompose_WithMatches(t *testing.T) {
	completer := scriptedCompleter()
	composer := NewProposalComposer(completer, logging.Discard())
	matches := []models.SimilarProject{{
		Project: &models.PortfolioProject{Name: "Admin", AISummary: strings.Repeat("s", 150), GithubURL: "https://github.com/x/admin"},
		Score:   0.9,
	}}

	got, err := composer.Compose(context.Background(), longDescription, matches, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strings.Contains(got, "**") {
		t.Errorf("markdown should be stripped: %q", got)
	}
	if !strings.Contains(got, "✔ Admin: https://github.com/x/admin\n\n𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬") {
		t.Errorf("links not inserted before sign-off:\n%s", got)
	}

	reqs := completer.recorded()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Temperature != 0.7 || reqs[0].MaxTokens != 700 {
		t.Errorf("request = %v/%d, want 0.7/700", reqs[0].Temperature, reqs[0].MaxTokens)
	}
	if !strings.Contains(reqs[0].System, "RELEVANT PORTFOLIO PROJECTS") {
		t.Error("system prompt should carry portfolio context")
	}
	if !strings.Contains(reqs[0].System, strings.Repeat("s", 100)+"...") || strings.Contains(reqs[0].System, strings.Repeat("s", 101)) {
		t.Error("project summary should be truncated to 100 runes")
	}
	if !strings.HasPrefix(reqs[0].User, "Job Description:\n") {
		t.Errorf("user message = %q", reqs[0].User)
	}
}

func TestCompose_FallsBackToPlain(t *testing.T) {
	completer := &fakeCompleter{respond: func(req llm.ChatRequest) (string, error) {
		if strings.Contains(req.System, "RELEVANT PORTFOLIO PROJECTS") {
			return "", errFake
		}
		return "plain proposal", nil
	}}
	composer := NewProposalComposer(completer, logging.Discard())
	matches := []models.SimilarProject{{Project: &models.PortfolioProject{Name: "Admin", GithubURL: "https://g"}}}

	got, err := composer.Compose(context.Background(), longDescription, matches, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got != "plain proposal" {
		t.Errorf("Compose() = %q, want plain proposal", got)
	}
	if n := len(completer.recorded()); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestCompose_PlainFailureIsReturned(t *testing.T) {
	completer := &fakeCompleter{respond: func(llm.ChatRequest) (string, error) { return "", errFake }}
	composer := NewProposalComposer(completer, logging.Discard())

	if _, err := composer.Compose(context.Background(), longDescription, nil, nil); err == nil {
		t.Error("Compose() should fail when the plain call fails")
	}
}

func TestCompose_UsesProfile(t *testing.T) {
	completer := &fakeCompleter{}
	composer := NewProposalComposer(completer, logging.Discard())
	profile := &models.FreelancerProfile{Name: "Sam Rivera", Title: "Go Developer"}

	if _, err := composer.Compose(context.Background(), longDescription, nil, profile); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	system := completer.recorded()[0].System
	if !strings.Contains(system, "Sam Rivera, a top-rated Go Developer") {
		t.Errorf("persona missing profile: %s", system)
	}
	if !strings.Contains(system, Bold("Sam Rivera")) {
		t.Error("sign-off should carry the bold profile name")
	}
	if completer.recorded()[0].MaxTokens != 600 {
		t.Errorf("plain MaxTokens = %d, want 600", completer.recorded()[0].MaxTokens)
	}
}

func TestComposeCustom(t *testing.T) {
	completer := &fakeCompleter{respond: func(llm.ChatRequest) (string, error) {
		return "Hi John,\n\nBody\n\n𝐂𝐡𝐞𝐞𝐫𝐬,\nSam", nil
	}}
	composer := NewProposalComposer(completer, logging.Discard())
	profile := &models.FreelancerProfile{
		Name:             "Sam",
		Signature:        "Cheers",
		GithubURL:        "https://github.com/sam",
		StackOverflowURL: "https://stackoverflow.com/u/1",
		WebsiteURL:       "https://sam.dev",
	}

	got, err := composer.ComposeCustom(context.Background(), CustomRequest{
		JobDescription: longDescription,
		ClientName:     "John",
		Projects:       []*models.PortfolioProject{{Name: "Admin", LiveURL: "https://admin.example"}},
		IncludeGithub:  true,
		IncludeWebsite: true,
	}, profile)
	if err != nil {
		t.Fatalf("ComposeCustom() error = %v", err)
	}
	if !strings.Contains(got, "✔ Admin: https://admin.example\n\n𝐂𝐡𝐞𝐞𝐫𝐬") {
		t.Errorf("links should precede the custom signature:\n%s", got)
	}

	system := completer.recorded()[0].System
	if !strings.Contains(system, Bold("Hi John")) {
		t.Error("greeting should address the client")
	}
	if !strings.Contains(system, "GitHub: https://github.com/sam") || !strings.Contains(system, "Website: https://sam.dev") {
		t.Error("enabled profile links missing from prompt")
	}
	if strings.Contains(system, "stackoverflow.com") {
		t.Error("disabled Stack Overflow link should not be offered")
	}
}
