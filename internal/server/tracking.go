// ABOUTME: HTTP handlers for proposal tracking records and the freelancer profile
// ABOUTME: Status updates are partial; omitted flags keep their stored values
package server

import (
	"net/http"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
)

type createTrackingRequest struct {
	UserID       string `json:"user_id"`
	ProposalID   string `json:"proposal_id"`
	ProposalLink string `json:"proposal_link"`
	Connected    int    `json:"connected"`
	PostedAgo    string `json:"posted_ago"`
}

type updateTrackingRequest struct {
	IsViewed *bool `json:"is_viewed"`
	IsHired  *bool `json:"is_hired"`
}

func (s *Server) handleCreateTracking(w http.ResponseWriter, r *http.Request) {
	var req createTrackingRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := s.services.Tracking.Create(core.CreateTrackingRequest{
		UserID:       req.UserID,
		ProposalID:   req.ProposalID,
		ProposalLink: req.ProposalLink,
		Connected:    req.Connected,
		PostedAgo:    req.PostedAgo,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListTracking(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	result, err := s.services.Tracking.List(r.URL.Query().Get("user_id"), page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrackingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Tracking.Stats(r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTracking(w http.ResponseWriter, r *http.Request) {
	record, err := s.services.Tracking.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleUpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req updateTrackingRequest
	if !decode(w, r, &req) {
		return
	}
	record, err := s.services.Tracking.UpdateStatus(r.PathValue("id"), req.IsViewed, req.IsHired)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteTracking(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Tracking.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.services.Profile.Get()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req models.FreelancerProfile
	if !decode(w, r, &req) {
		return
	}
	profile, err := s.services.Profile.Save(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
