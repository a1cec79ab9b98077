package api

import (
	"encoding/json"
	"net/http"

	"github.com/hritik013/pyqhub/internal/feedback"
)

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if s.feedback == nil {
		jsonError(w, "feedback endpoint not configured", http.StatusServiceUnavailable)
		return
	}

	var f feedback.Feedback
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.feedback.Submit(r.Context(), f); err != nil {
		s.log.Error("submit feedback", "error", err)
		jsonError(w, "failed to submit feedback", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	if s.feedback == nil {
		jsonError(w, "feedback endpoint not configured", http.StatusServiceUnavailable)
		return
	}

	entries, err := s.feedback.List(r.Context())
	if err != nil {
		s.log.Error("list feedback", "error", err)
		jsonError(w, "failed to fetch feedback", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"feedback": entries})
}
