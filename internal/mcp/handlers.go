// ABOUTME: MCP tool handler implementations for the proposal server
// ABOUTME: Validation problems and service failures come back as tool errors, not protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	services *core.Services
	userID   string
	logger   *log.Logger
}

// NewHandlers creates handlers bound to one user
func NewHandlers(services *core.Services, userID string, logger *log.Logger) *Handlers {
	return &Handlers{
		services: services,
		userID:   userID,
		logger:   logging.Component(logger, "mcp"),
	}
}

type projectSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Score       *float64           `json:"similarity_score,omitempty"`
	ProjectType models.ProjectType `json:"project_type"`
	Summary     string             `json:"ai_summary,omitempty"`
	URL         string             `json:"url,omitempty"`
	Featured    bool               `json:"is_featured,omitempty"`
}

// GenerateProposal handles the generate_proposal tool
func (h *Handlers) GenerateProposal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError("job_description argument is required and must be a string"), nil
	}

	result, err := h.services.Proposals.Generate(ctx, core.GenerateRequest{
		UserID:         request.GetString("user_id", h.userID),
		JobDescription: description,
	})
	if err != nil {
		return h.toolError("proposal generation failed", err), nil
	}

	return jsonResult(map[string]interface{}{
		"proposal_id":             result.Proposal.ID,
		"job_title":               result.Proposal.JobTitle,
		"generated_proposal":      result.Proposal.GeneratedProposal,
		"relevant_projects_found": len(result.Included),
		"included_projects":       summarize(result.Included, 3),
	})
}

// GenerateCustomProposal handles the generate_custom_proposal tool
func (h *Handlers) GenerateCustomProposal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError("job_description argument is required and must be a string"), nil
	}
	projectIDs, err := request.RequireStringSlice("project_ids")
	if err != nil {
		return mcp.NewToolResultError("project_ids argument is required and must be an array of strings"), nil
	}

	result, err := h.services.Proposals.GenerateCustom(ctx, core.CustomGenerateRequest{
		UserID:               h.userID,
		JobDescription:       description,
		ClientName:           request.GetString("client_name", ""),
		SelectedProjectIDs:   projectIDs,
		IncludeGithub:        request.GetBool("include_github", false),
		IncludeStackOverflow: request.GetBool("include_stackoverflow", false),
		IncludeWebsite:       request.GetBool("include_website", false),
	})
	if err != nil {
		return h.toolError("custom proposal generation failed", err), nil
	}

	return jsonResult(map[string]interface{}{
		"proposal_id":             result.Proposal.ID,
		"generated_proposal":      result.Proposal.GeneratedProposal,
		"selected_projects_count": len(result.Included),
	})
}

// FindSimilarProjects handles the find_similar_projects tool
func (h *Handlers) FindSimilarProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError("job_description argument is required and must be a string"), nil
	}

	outcome, err := h.services.Portfolio.Similar(ctx, h.userID, description, request.GetInt("top_k", 0))
	if err != nil {
		return h.toolError("similarity search failed", err), nil
	}

	return jsonResult(map[string]interface{}{
		"job_description":  util.Preview(description, 100),
		"similar_projects": summarize(outcome.Matches, 4),
		"skipped":          outcome.Skipped,
	})
}

// AddPortfolioProject handles the add_portfolio_project tool
func (h *Handlers) AddPortfolioProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("description argument is required and must be a string"), nil
	}

	project, err := h.services.Portfolio.Create(ctx, core.CreateProjectRequest{
		UserID:      h.userID,
		Name:        name,
		Description: description,
		GithubURL:   request.GetString("github_url", ""),
		LiveURL:     request.GetString("live_url", ""),
		AppStoreURL: request.GetString("app_store_url", ""),
		IsFeatured:  request.GetBool("featured", false),
	})
	if err != nil {
		return h.toolError("failed to add project", err), nil
	}

	return jsonResult(map[string]interface{}{
		"id":               project.ID,
		"name":             project.Name,
		"project_type":     project.ProjectType,
		"complexity_level": project.ComplexityLevel,
		"technologies":     project.Technologies,
		"tags":             project.Tags,
		"ai_summary":       project.AISummary,
		"embedded":         project.HasEmbedding(),
	})
}

// ListPortfolio handles the list_portfolio tool
func (h *Handlers) ListPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := models.ProjectFilter{}
	if raw := request.GetString("project_type", ""); raw != "" {
		filter.ProjectType = models.NormalizeProjectType(raw)
	}

	page, err := h.services.Portfolio.List(h.userID, filter, 1, models.MaxPageSize)
	if err != nil {
		return h.toolError("failed to list portfolio", err), nil
	}

	projects := make([]projectSummary, 0, len(page.Items))
	for _, p := range page.Items {
		projects = append(projects, newProjectSummary(p, nil))
	}
	return jsonResult(map[string]interface{}{
		"projects": projects,
		"total":    page.Total,
	})
}

// ListProposals handles the list_proposals tool
func (h *Handlers) ListProposals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := h.services.Proposals.List(h.userID, request.GetInt("page", 1), models.DefaultPageSize)
	if err != nil {
		return h.toolError("failed to list proposals", err), nil
	}
	return jsonResult(proposalPage(page))
}

// SearchProposals handles the search_proposals tool
func (h *Handlers) SearchProposals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	page, err := h.services.Proposals.Search(h.userID, query, 1, models.DefaultPageSize)
	if err != nil {
		return h.toolError("search failed", err), nil
	}
	return jsonResult(proposalPage(page))
}

// ProposalStats handles the proposal_stats tool
func (h *Handlers) ProposalStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.services.Proposals.Stats(h.userID)
	if err != nil {
		return h.toolError("failed to load proposal stats", err), nil
	}
	tracking, err := h.services.Tracking.Stats(h.userID)
	if err != nil {
		return h.toolError("failed to load tracking stats", err), nil
	}
	return jsonResult(map[string]interface{}{
		"proposals": stats,
		"tracking":  tracking,
	})
}

// AddDocument handles the add_document tool
func (h *Handlers) AddDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	doc, err := h.services.Documents.Add(ctx, core.DocumentInput{
		ID:       request.GetString("id", ""),
		UserID:   h.userID,
		Name:     name,
		MimeType: request.GetString("mime_type", ""),
		Text:     text,
	})
	if err != nil {
		return h.toolError("failed to add document", err), nil
	}

	return jsonResult(map[string]interface{}{
		"id":        doc.ID,
		"name":      doc.Name,
		"mime_type": doc.MimeType,
		"summary":   doc.Summary,
		"embedded":  doc.HasEmbedding(),
	})
}

// SearchDocuments handles the search_documents tool
func (h *Handlers) SearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	answer, err := h.services.Documents.Search(ctx, core.SearchRequest{
		UserID: h.userID,
		Query:  query,
		Limit:  request.GetInt("limit", 0),
	})
	if err != nil {
		return h.toolError("document search failed", err), nil
	}

	sources := make([]map[string]interface{}, 0, len(answer.Documents))
	for _, m := range answer.Documents {
		sources = append(sources, map[string]interface{}{
			"id":               m.Document.ID,
			"name":             m.Document.Name,
			"similarity_score": round(m.Score, 4),
		})
	}
	return jsonResult(map[string]interface{}{
		"answer":  answer.Answer,
		"sources": sources,
		"skipped": answer.Skipped,
	})
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := h.services.Documents.List(h.userID, request.GetInt("page", 1), models.DefaultPageSize)
	if err != nil {
		return h.toolError("failed to list documents", err), nil
	}

	items := make([]map[string]interface{}, 0, len(page.Items))
	for _, d := range page.Items {
		items = append(items, map[string]interface{}{
			"id":         d.ID,
			"name":       d.Name,
			"mime_type":  d.MimeType,
			"summary":    d.Summary,
			"created_at": d.CreatedAt,
		})
	}
	return jsonResult(map[string]interface{}{
		"documents":   items,
		"page":        page.Page,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	})
}

// toolError reports validation failures verbatim and logs everything else
func (h *Handlers) toolError(msg string, err error) *mcp.CallToolResult {
	if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	h.logger.Error(msg, "err", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

func summarize(matches []models.SimilarProject, decimals int) []projectSummary {
	out := make([]projectSummary, 0, len(matches))
	for _, m := range matches {
		score := round(m.Score, decimals)
		out = append(out, newProjectSummary(m.Project, &score))
	}
	return out
}

func newProjectSummary(p *models.PortfolioProject, score *float64) projectSummary {
	return projectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Score:       score,
		ProjectType: p.ProjectType,
		Summary:     p.AISummary,
		URL:         p.PrimaryURL(),
		Featured:    p.IsFeatured,
	}
}

func proposalPage(page models.Page[*models.Proposal]) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, map[string]interface{}{
			"id":              p.ID,
			"job_title":       p.JobTitle,
			"job_description": util.Preview(p.JobDescription, 200),
			"created_at":      p.CreatedAt,
		})
	}
	return map[string]interface{}{
		"proposals":   items,
		"page":        page.Page,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func projectTypeNames() []string {
	names := make([]string, 0, len(models.ProjectTypes))
	for _, t := range models.ProjectTypes {
		names = append(names, string(t))
	}
	return names
}
