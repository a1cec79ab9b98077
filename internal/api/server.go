package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hritik013/pyqhub/internal/assist"
	"github.com/hritik013/pyqhub/internal/config"
	"github.com/hritik013/pyqhub/internal/feedback"
	"github.com/hritik013/pyqhub/internal/papers"
	"github.com/hritik013/pyqhub/internal/pipeline"
)

// Server is the HTTP API server for pyqhub.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	papers       *papers.Store
	feedback     *feedback.Client
	assistant    *assist.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. The feedback client
// and assistant may be nil when their endpoints are not configured; the
// matching routes then report 503.
func NewServer(orch *pipeline.Orchestrator, store *papers.Store, fb *feedback.Client, assistant *assist.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		papers:       store,
		feedback:     fb,
		assistant:    assistant,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/extract/{jobID}", s.handleExtractStatus)
		r.Post("/api/extract/sync", s.handleExtractSync)

		r.Post("/api/papers", s.handleCreatePaper)
		r.Get("/api/papers", s.handleListPapers)
		r.Get("/api/papers/{paperID}", s.handleGetPaper)

		r.Post("/api/feedback", s.handleSubmitFeedback)
		r.Get("/api/feedback", s.handleListFeedback)

		r.Post("/api/assist/chat", s.handleAssistChat)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
