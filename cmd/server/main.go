package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hritik013/pyqhub/internal/api"
	"github.com/hritik013/pyqhub/internal/assist"
	"github.com/hritik013/pyqhub/internal/config"
	"github.com/hritik013/pyqhub/internal/docload"
	"github.com/hritik013/pyqhub/internal/extract"
	"github.com/hritik013/pyqhub/internal/feedback"
	"github.com/hritik013/pyqhub/internal/ocr"
	"github.com/hritik013/pyqhub/internal/papers"
	"github.com/hritik013/pyqhub/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the OCR engine.
	var recognizer ocr.Recognizer
	switch cfg.OCRProvider {
	case "remote":
		recognizer = ocr.NewRemoteEngine(cfg.OCRURL, cfg.OCRAPIKey)
	default:
		engine := ocr.NewTesseractEngine(cfg.TesseractPath)
		if !engine.Available() {
			log.Warn("tesseract not found; scanned pages will yield no text", "binary", cfg.TesseractPath)
		}
		recognizer = engine
	}

	// Initialize the extraction pipeline.
	loader := docload.NewLoader(cfg.MaxFetchBytes, 30*time.Second)
	pages := extract.NewPageExtractor(recognizer, extract.Config{
		MinTextLayer: cfg.MinTextLayer,
		OCRScale:     cfg.OCRScale,
		OCRTimeout:   cfg.OCRTimeout,
	}, log)
	runner := pipeline.NewRunner(pipeline.NewDocLoader(loader), pages, recognizer, pipeline.Config{
		MaxPages:       cfg.MaxPages,
		PageWorkers:    cfg.PageWorkers,
		OverallTimeout: cfg.ExtractionTimeout,
	}, log)

	orch := pipeline.NewOrchestrator(runner, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, log)
	orch.Start(ctx)

	// Papers metadata store.
	store, err := papers.Open(cfg.DBPath)
	if err != nil {
		log.Error("open papers store", "error", err)
		os.Exit(1)
	}

	// Optional outbound clients.
	var fb *feedback.Client
	if cfg.FeedbackURL != "" {
		fb = feedback.NewClient(cfg.FeedbackURL)
	}
	assistant := assist.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, fb, assistant, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		assistant.Close()
		if fb != nil {
			fb.Close()
		}
		store.Close()
	}()

	log.Info("starting pyqhub", "port", cfg.Port, "ocr_provider", cfg.OCRProvider)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
