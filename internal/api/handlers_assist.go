package api

import (
	"encoding/json"
	"net/http"

	"github.com/hritik013/pyqhub/internal/assist"
)

type chatRequest struct {
	Message string           `json:"message"`
	History []assist.Message `json:"history,omitempty"`
	Context string           `json:"context,omitempty"`
	Format  string           `json:"format,omitempty"`
}

func (s *Server) handleAssistChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		jsonError(w, "assistant not configured", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.Format != "" && req.Format != "text" && req.Format != "html" {
		jsonError(w, "format must be text or html", http.StatusBadRequest)
		return
	}

	reply, err := s.assistant.Chat(r.Context(), req.Message, req.History, req.Context)
	if err != nil {
		s.log.Error("assistant chat", "error", err)
		jsonError(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	resp := map[string]any{"reply": reply, "model": s.assistant.Model()}
	if req.Format == "html" {
		html, err := assist.RenderHTML(reply)
		if err != nil {
			s.log.Error("render reply", "error", err)
		} else {
			resp["html"] = html
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil || s.assistant.Stats == nil {
		jsonError(w, "assistant not configured", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.assistant.Stats.Snapshot())
}
