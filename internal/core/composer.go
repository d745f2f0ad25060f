// ABOUTME: ProposalComposer writes proposal text from a job description and matched portfolio work
// ABOUTME: Post-processes model output to strip markdown and insert portfolio links before the sign-off
package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

// Section headers use Mathematical Bold letters so they survive plain-text job boards
const (
	relevantWorkHeader = "𝐀𝐝𝐝𝐢𝐭𝐢𝐨𝐧𝐚𝐥 𝐑𝐞𝐥𝐞𝐯𝐚𝐧𝐭 𝐖𝐨𝐫𝐤:"
	closingMarker      = "𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬"
	summaryPreviewLen  = 100
)

var markdownBold = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ProposalComposer generates proposal text with the LLM
type ProposalComposer struct {
	completer Completer
	logger    *log.Logger
}

// CustomRequest selects exactly which projects and profile links a proposal cites
type CustomRequest struct {
	JobDescription       string
	ClientName           string
	Projects             []*models.PortfolioProject
	IncludeGithub        bool
	IncludeStackOverflow bool
	IncludeWebsite       bool
}

// NewProposalComposer creates a new ProposalComposer
func NewProposalComposer(completer Completer, logger *log.Logger) *ProposalComposer {
	return &ProposalComposer{
		completer: completer,
		logger:    logging.Component(logger, "composer"),
	}
}

// Compose writes a proposal. With matches it first tries a portfolio-aware
// prompt and falls back to the plain prompt if that call fails.
func (c *ProposalComposer) Compose(ctx context.Context, jobDescription string, matches []models.SimilarProject, profile *models.FreelancerProfile) (string, error) {
	if len(matches) > 0 {
		projects := make([]*models.PortfolioProject, 0, len(matches))
		for _, m := range matches {
			projects = append(projects, m.Project)
		}

		text, err := c.complete(ctx, portfolioPrompt("", projects, nil, profile), jobDescription, 700)
		if err == nil {
			return insertLinks(text, projects, closingFor(profile)), nil
		}
		c.logger.Warn("portfolio proposal failed, falling back to plain proposal", "err", err)
	}

	text, err := c.complete(ctx, plainPrompt(profile), jobDescription, 600)
	if err != nil {
		return "", fmt.Errorf("failed to generate proposal: %w", err)
	}
	return text, nil
}

// ComposeCustom writes a proposal citing only the requested projects and links
func (c *ProposalComposer) ComposeCustom(ctx context.Context, req CustomRequest, profile *models.FreelancerProfile) (string, error) {
	links := profileLinks(profile, req.IncludeGithub, req.IncludeStackOverflow, req.IncludeWebsite)

	text, err := c.complete(ctx, portfolioPrompt(req.ClientName, req.Projects, links, profile), req.JobDescription, 700)
	if err != nil {
		return "", fmt.Errorf("failed to generate custom proposal: %w", err)
	}
	return insertLinks(text, req.Projects, closingFor(profile)), nil
}

func (c *ProposalComposer) complete(ctx context.Context, system, jobDescription string, maxTokens int) (string, error) {
	text, err := c.completer.Complete(ctx, llm.ChatRequest{
		System:      system,
		User:        "Job Description:\n" + jobDescription,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return StripMarkdownBold(text), nil
}

// StripMarkdownBold removes **bold** markers the model adds despite instructions
func StripMarkdownBold(text string) string {
	text = markdownBold.ReplaceAllString(text, "$1")
	return strings.ReplaceAll(text, "**", "")
}

// InsertPortfolioLinks adds a relevant-work block with one link per project
// before the sign-off, or at the end when there is no sign-off.
func InsertPortfolioLinks(proposal string, projects []*models.PortfolioProject) string {
	return insertLinks(proposal, projects, closingMarker)
}

func insertLinks(proposal string, projects []*models.PortfolioProject, marker string) string {
	block := linksBlock(projects)
	if block == "" {
		return proposal
	}
	if marker != "" {
		if i := strings.LastIndex(proposal, marker); i >= 0 {
			before := strings.TrimRight(proposal[:i], " \n")
			if before == "" {
				return block + "\n\n" + proposal[i:]
			}
			return before + "\n\n" + block + "\n\n" + proposal[i:]
		}
	}
	return strings.TrimRight(proposal, " \n") + "\n\n" + block
}

func linksBlock(projects []*models.PortfolioProject) string {
	var lines []string
	for _, p := range projects {
		if p == nil {
			continue
		}
		if url := p.PrimaryURL(); url != "" {
			lines = append(lines, fmt.Sprintf("✔ %s: %s", p.Name, url))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return relevantWorkHeader + "\n" + strings.Join(lines, "\n")
}

// closingFor returns the first sign-off line as the model is told to write it
func closingFor(profile *models.FreelancerProfile) string {
	if profile == nil || profile.Signature == "" {
		return closingMarker
	}
	return Bold(profile.Signature)
}

func signOff(profile *models.FreelancerProfile) string {
	lines := strings.Split(profile.SignOff(), "\n")
	for i, line := range lines {
		lines[i] = Bold(line)
	}
	return strings.Join(lines, "\n")
}

func profileLinks(profile *models.FreelancerProfile, github, stackOverflow, website bool) []string {
	if profile == nil {
		return nil
	}
	var links []string
	if github && profile.GithubURL != "" {
		links = append(links, "GitHub: "+profile.GithubURL)
	}
	if stackOverflow && profile.StackOverflowURL != "" {
		links = append(links, "Stack Overflow: "+profile.StackOverflowURL)
	}
	if website && profile.WebsiteURL != "" {
		links = append(links, "Website: "+profile.WebsiteURL)
	}
	return links
}

func greeting(clientName string) string {
	if name := strings.TrimSpace(clientName); name != "" {
		return Bold("Hi "+name) + ","
	}
	return "𝐇𝐢 𝐭𝐡𝐞𝐫𝐞,"
}

func plainPrompt(profile *models.FreelancerProfile) string {
	var b strings.Builder
	b.WriteString(persona(profile))
	b.WriteString("\n\nREQUIRED FORMAT:\n")
	fmt.Fprintf(&b, "1. Start with %q\n", greeting(""))
	b.WriteString("2. A brief introduction addressing the client's needs directly\n")
	b.WriteString("3. A section titled \"𝐇𝐞𝐫𝐞'𝐬 𝐡𝐨𝐰 𝐈'𝐝 𝐭𝐚𝐜𝐤𝐥𝐞 𝐢𝐭:\" followed by 3-4 bullet points\n")
	b.WriteString("4. End with a technical question about the project\n")
	fmt.Fprintf(&b, "5. Close with:\n%s\n", signOff(profile))
	b.WriteString(styleRules)
	return b.String()
}

func portfolioPrompt(clientName string, projects []*models.PortfolioProject, links []string, profile *models.FreelancerProfile) string {
	var b strings.Builder
	b.WriteString(persona(profile))
	b.WriteString("\n\nREQUIRED FORMAT:\n")
	fmt.Fprintf(&b, "1. Start with %q\n", greeting(clientName))
	b.WriteString("2. A brief introduction addressing the client's needs directly\n")
	if len(projects) > 0 && projects[0] != nil {
		fmt.Fprintf(&b, "3. Briefly mention one relevant project: %s\n", projects[0].Name)
	} else {
		b.WriteString("3. Briefly mention relevant past experience\n")
	}
	b.WriteString("4. A section titled \"𝐇𝐞𝐫𝐞'𝐬 𝐡𝐨𝐰 𝐈'𝐝 𝐭𝐚𝐜𝐤𝐥𝐞 𝐢𝐭:\" followed by 3-4 bullet points\n")
	b.WriteString("5. End with a technical question about the project\n")
	fmt.Fprintf(&b, "6. Close with:\n%s\n", signOff(profile))
	b.WriteString(styleRules)

	if len(projects) > 0 {
		b.WriteString("\nRELEVANT PORTFOLIO PROJECTS:\n")
		for _, p := range projects {
			if p == nil {
				continue
			}
			summary := p.AISummary
			if summary == "" {
				summary = p.Description
			}
			fmt.Fprintf(&b, "- %s: %s\n", p.Name, util.Preview(summary, summaryPreviewLen))
			if p.GithubURL != "" {
				fmt.Fprintf(&b, "  GitHub: %s\n", p.GithubURL)
			}
			if p.LiveURL != "" {
				fmt.Fprintf(&b, "  Live: %s\n", p.LiveURL)
			}
			if p.AppStoreURL != "" {
				fmt.Fprintf(&b, "  App Store: %s\n", p.AppStoreURL)
			}
		}
	}
	if len(links) > 0 {
		b.WriteString("\nPROFILE LINKS (mention these near the end):\n")
		for _, l := range links {
			b.WriteString("- " + l + "\n")
		}
	}
	return b.String()
}

func persona(profile *models.FreelancerProfile) string {
	who := "a top-rated freelancer"
	if profile != nil && profile.Name != "" {
		who = profile.Name + ", a top-rated freelancer"
		if profile.Title != "" {
			who = fmt.Sprintf("%s, a top-rated %s", profile.Name, profile.Title)
		}
	}
	return fmt.Sprintf("You are %s writing a proposal for an Upwork job. Follow this format and style exactly.", who)
}

const styleRules = `
STYLE REQUIREMENTS:
- Use bold Unicode characters for section headers, never markdown ** or __
- Keep it around 150 words
- Be technical but informal, confident, and specific about the approach
- Use checkmarks (✔) for portfolio items
`

// Bold maps ASCII letters and digits to their Mathematical Bold forms
func Bold(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 4)
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(0x1D400 + (r - 'A'))
		case r >= 'a' && r <= 'z':
			b.WriteRune(0x1D41A + (r - 'a'))
		case r >= '0' && r <= '9':
			b.WriteRune(0x1D7CE + (r - '0'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
