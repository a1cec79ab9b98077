package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hritik013/pyqhub/internal/pipeline"
)

type extractRequest struct {
	URL      string `json:"url"`
	Source   string `json:"source"`
	ForceOCR bool   `json:"force_ocr"`
}

func (r extractRequest) validate() (pipeline.JobSource, error) {
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("url must be an http(s) URL")
	}
	switch r.Source {
	case "", string(pipeline.SourceDocument):
		return pipeline.SourceDocument, nil
	case string(pipeline.SourceImage):
		return pipeline.SourceImage, nil
	}
	return "", fmt.Errorf("source must be document or image, got %q", r.Source)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	source, err := req.validate()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        uuid.NewString(),
		URL:       req.URL,
		Source:    source,
		ForceOCR:  req.ForceOCR,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/extract/%s", job.ID),
	})
}

func (s *Server) handleExtractStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleExtractSync runs an extraction inline and returns the result in
// the response. The runner enforces its own overall deadline, so a hung
// upstream cannot hold the connection open indefinitely.
func (s *Server) handleExtractSync(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	source, err := req.validate()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	runner := s.orchestrator.Runner()
	var res pipeline.ExtractionResult
	if source == pipeline.SourceImage {
		res = runner.RunImage(r.Context(), req.URL)
	} else {
		res = runner.Run(r.Context(), req.URL, req.ForceOCR)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
