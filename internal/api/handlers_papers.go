package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hritik013/pyqhub/internal/papers"
)

func (s *Server) handleCreatePaper(w http.ResponseWriter, r *http.Request) {
	var p papers.Paper
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	p.ID = "" // IDs are assigned server-side

	if err := s.papers.Save(r.Context(), &p); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := papers.Filter{Subject: q.Get("subject")}
	if v := q.Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Year = n
		}
	}
	if v := q.Get("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Semester = n
		}
	}

	list, err := s.papers.List(r.Context(), f)
	if err != nil {
		s.log.Error("list papers", "error", err)
		jsonError(w, "failed to list papers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"papers": list})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	p, err := s.papers.Get(r.Context(), paperID)
	if err != nil {
		s.log.Error("get paper", "paper_id", paperID, "error", err)
		jsonError(w, "failed to get paper", http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "paper not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}
