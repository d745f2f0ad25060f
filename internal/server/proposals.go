// ABOUTME: HTTP handlers for proposal generation and proposal history
// ABOUTME: Lists truncate job descriptions; generate responses round scores to three decimals
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

const listPreviewLength = 200

type generateRequest struct {
	JobDescription string `json:"job_description"`
	UserID         string `json:"user_id"`
}

type customGenerateRequest struct {
	JobDescription       string   `json:"job_description"`
	UserID               string   `json:"user_id"`
	ClientName           string   `json:"client_name"`
	SelectedProjects     []string `json:"selected_projects"`
	IncludeGithub        bool     `json:"include_github"`
	IncludeStackOverflow bool     `json:"include_stackoverflow"`
	IncludeWebsite       bool     `json:"include_website"`
}

type includedProject struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type generateResponse struct {
	ProposalID            string            `json:"proposal_id"`
	JobTitle              string            `json:"job_title"`
	GeneratedProposal     string            `json:"generated_proposal"`
	RelevantProjectsFound int               `json:"relevant_projects_found"`
	IncludedProjects      []includedProject `json:"included_projects"`
}

type proposalSummary struct {
	ID              string    `json:"id"`
	JobTitle        string    `json:"job_title"`
	JobDescription  string    `json:"job_description"`
	BudgetRange     string    `json:"budget_range,omitempty"`
	ProjectDuration string    `json:"project_duration,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.services.Proposals.Generate(r.Context(), core.GenerateRequest{
		UserID:         req.UserID,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	included := make([]includedProject, 0, len(result.Included))
	for _, m := range result.Included {
		included = append(included, includedProject{
			ID:    m.Project.ID,
			Name:  m.Project.Name,
			Score: round(m.Score, 3),
		})
	}
	writeJSON(w, http.StatusOK, generateResponse{
		ProposalID:            result.Proposal.ID,
		JobTitle:              result.Proposal.JobTitle,
		GeneratedProposal:     result.Proposal.GeneratedProposal,
		RelevantProjectsFound: len(result.Included),
		IncludedProjects:      included,
	})
}

func (s *Server) handleGenerateCustom(w http.ResponseWriter, r *http.Request) {
	var req customGenerateRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.services.Proposals.GenerateCustom(r.Context(), core.CustomGenerateRequest{
		UserID:               req.UserID,
		JobDescription:       req.JobDescription,
		ClientName:           req.ClientName,
		SelectedProjectIDs:   req.SelectedProjects,
		IncludeGithub:        req.IncludeGithub,
		IncludeStackOverflow: req.IncludeStackOverflow,
		IncludeWebsite:       req.IncludeWebsite,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"proposal_id":             result.Proposal.ID,
		"job_title":               result.Proposal.JobTitle,
		"generated_proposal":      result.Proposal.GeneratedProposal,
		"selected_projects_count": len(result.Included),
	})
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	result, err := s.services.Proposals.List(r.URL.Query().Get("user_id"), page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeProposals(result))
}

func (s *Server) handleSearchProposals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, query := strings.TrimSpace(q.Get("user_id")), strings.TrimSpace(q.Get("q"))
	if userID == "" || query == "" {
		badRequest(w, "user_id and q are required")
		return
	}
	page, size, err := pageParams(r)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	result, err := s.services.Proposals.Search(userID, query, page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeProposals(result))
}

func (s *Server) handleProposalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Proposals.Stats(r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.services.Proposals.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProposal(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Proposals.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func summarizeProposals(page models.Page[*models.Proposal]) models.Page[proposalSummary] {
	items := make([]proposalSummary, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, proposalSummary{
			ID:              p.ID,
			JobTitle:        p.JobTitle,
			JobDescription:  util.Preview(p.JobDescription, listPreviewLength),
			BudgetRange:     p.BudgetRange,
			ProjectDuration: p.ProjectDuration,
			CreatedAt:       p.CreatedAt,
		})
	}
	return models.NewPage(items, page.Page, page.PageSize, page.Total)
}
