// ABOUTME: HTTP handlers for portfolio projects and similarity search
// ABOUTME: Similarity responses round scores to four decimals and preview the job description
package server

import (
	"net/http"
	"strconv"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

type createProjectRequest struct {
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
	AppStoreURL string   `json:"app_store_url"`
	Images      []string `json:"images"`
	IsFeatured  bool     `json:"is_featured"`
}

type updateProjectRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	GithubURL   *string  `json:"github_url"`
	LiveURL     *string  `json:"live_url"`
	AppStoreURL *string  `json:"app_store_url"`
	Images      []string `json:"images"`
	IsFeatured  *bool    `json:"is_featured"`
}

type similarRequest struct {
	JobDescription string `json:"job_description"`
	UserID         string `json:"user_id"`
	TopK           int    `json:"top_k"`
}

// projectDetail adds the embedding size, which the project JSON omits
type projectDetail struct {
	*models.PortfolioProject
	EmbeddingDimensions int `json:"embedding_dimensions"`
}

type similarProject struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Score           float64                `json:"similarity_score"`
	ProjectType     models.ProjectType     `json:"project_type"`
	ComplexityLevel models.ComplexityLevel `json:"complexity_level"`
	Technologies    []string               `json:"technologies"`
	AISummary       string                 `json:"ai_summary,omitempty"`
	URL             string                 `json:"url,omitempty"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := s.services.Portfolio.Create(r.Context(), core.CreateProjectRequest{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		AppStoreURL: req.AppStoreURL,
		Images:      req.Images,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail(project))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size, err := pageParams(r)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	filter := models.ProjectFilter{}
	if raw := q.Get("project_type"); raw != "" {
		filter.ProjectType = models.ProjectType(raw)
	}
	if raw := q.Get("is_featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "is_featured must be true or false")
			return
		}
		filter.Featured = &featured
	}

	result, err := s.services.Portfolio.List(q.Get("user_id"), filter, page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.services.Portfolio.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(project))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := s.services.Portfolio.Update(r.Context(), r.PathValue("id"), core.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		AppStoreURL: req.AppStoreURL,
		Images:      req.Images,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(project))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Portfolio.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if !decode(w, r, &req) {
		return
	}

	outcome, err := s.services.Portfolio.Similar(r.Context(), req.UserID, req.JobDescription, req.TopK)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	projects := make([]similarProject, 0, len(outcome.Matches))
	for _, m := range outcome.Matches {
		projects = append(projects, similarProject{
			ID:              m.Project.ID,
			Name:            m.Project.Name,
			Score:           round(m.Score, 4),
			ProjectType:     m.Project.ProjectType,
			ComplexityLevel: m.Project.ComplexityLevel,
			Technologies:    m.Project.Technologies,
			AISummary:       m.Project.AISummary,
			URL:             m.Project.PrimaryURL(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_description":  util.Preview(req.JobDescription, 100),
		"similar_projects": projects,
		"skipped":          outcome.Skipped,
	})
}

func detail(p *models.PortfolioProject) projectDetail {
	return projectDetail{PortfolioProject: p, EmbeddingDimensions: len(p.Embedding)}
}
