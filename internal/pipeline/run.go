// Package pipeline drives the end-to-end question extraction run:
// fetch -> decode -> per-page text extraction -> question segmentation,
// under a global wall-clock budget.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hritik013/pyqhub/internal/docload"
	"github.com/hritik013/pyqhub/internal/extract"
	"github.com/hritik013/pyqhub/internal/ocr"
	"github.com/hritik013/pyqhub/internal/segment"
)

// ExtractionResult is the single value every run resolves to. Callers
// check Success; failures never surface as panics or returned errors.
type ExtractionResult struct {
	Success   bool     `json:"success"`
	Text      string   `json:"text,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Document is the page-addressable view the runner needs. It is satisfied
// by *docload.Document and by test fakes.
type Document interface {
	PageCount() int
	TextLayer(n int) (string, error)
	RenderPage(n int, scale float64) (image.Image, error)
	Close() error
}

// Loader fetches and decodes documents.
type Loader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Open(data []byte, kind docload.Kind) (Document, error)
}

// docLoader adapts *docload.Loader, whose Open returns the concrete type.
type docLoader struct {
	*docload.Loader
}

func (d docLoader) Open(data []byte, kind docload.Kind) (Document, error) {
	return d.Loader.Open(data, kind)
}

// NewDocLoader wraps a docload.Loader for use by the runner.
func NewDocLoader(l *docload.Loader) Loader {
	return docLoader{l}
}

// Config bounds a single run.
type Config struct {
	// MaxPages caps how many pages are extracted per document.
	MaxPages int
	// PageWorkers bounds concurrent page extraction. Output order is by
	// page ordinal regardless of completion order.
	PageWorkers int
	// OverallTimeout is the wall-clock budget for a whole run.
	OverallTimeout time.Duration
}

func DefaultRunConfig() Config {
	return Config{
		MaxPages:       10,
		PageWorkers:    2,
		OverallTimeout: 60 * time.Second,
	}
}

// Progress receives phase notifications as a run advances through its
// stages (fetching, extracting, segmenting). Callbacks run on the
// extraction goroutine and must be fast.
type Progress func(phase string)

func report(p Progress, phase string) {
	if p != nil {
		p(phase)
	}
}

// Runner executes extraction runs.
type Runner struct {
	loader Loader
	pages  *extract.PageExtractor
	rec    ocr.Recognizer
	log    *slog.Logger
	cfg    Config
}

func NewRunner(loader Loader, pages *extract.PageExtractor, rec ocr.Recognizer, cfg Config, log *slog.Logger) *Runner {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 1
	}
	if cfg.OverallTimeout <= 0 {
		cfg.OverallTimeout = 60 * time.Second
	}
	return &Runner{loader: loader, pages: pages, rec: rec, log: log, cfg: cfg}
}

// Run extracts questions from the document at url. It always returns a
// result value: fetch/decode failures and budget expiry become
// {Success: false, Error: ...}.
func (r *Runner) Run(ctx context.Context, url string, forceOCR bool) ExtractionResult {
	return r.RunWithProgress(ctx, url, forceOCR, nil)
}

// RunWithProgress is Run with phase notifications for status polling.
func (r *Runner) RunWithProgress(ctx context.Context, url string, forceOCR bool, progress Progress) ExtractionResult {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.OverallTimeout)
	defer cancel()

	res, err := r.runDocument(ctx, url, forceOCR, progress)
	if err != nil {
		return r.failure(url, err)
	}
	return res
}

// RunImage extracts questions from a single scanned image: one recognizer
// call over the whole image, then the same segmentation as the document
// path. Text in the result is the raw recognizer output.
func (r *Runner) RunImage(ctx context.Context, url string) ExtractionResult {
	return r.RunImageWithProgress(ctx, url, nil)
}

// RunImageWithProgress is RunImage with phase notifications.
func (r *Runner) RunImageWithProgress(ctx context.Context, url string, progress Progress) ExtractionResult {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.OverallTimeout)
	defer cancel()

	report(progress, "fetching")
	data, err := r.fetchWithRetry(ctx, url)
	if err != nil {
		return r.failure(url, err)
	}
	report(progress, "extracting")
	return r.recognizeImage(ctx, url, data)
}

func (r *Runner) runDocument(ctx context.Context, url string, forceOCR bool, progress Progress) (ExtractionResult, error) {
	report(progress, "fetching")
	data, err := r.fetchWithRetry(ctx, url)
	if err != nil {
		return ExtractionResult{}, err
	}

	kind := docload.DetectKind(url, data)
	if kind == docload.KindImage {
		// Scanned single-image papers skip paging entirely.
		report(progress, "extracting")
		return r.recognizeImage(ctx, url, data), nil
	}

	doc, err := r.loader.Open(data, kind)
	if err != nil {
		return ExtractionResult{}, err
	}
	defer doc.Close()

	pageCount := doc.PageCount()
	maxPages := min(pageCount, r.cfg.MaxPages)
	r.log.Info("document loaded", "url", url, "pages", pageCount, "extracting", maxPages, "kind", kind)
	report(progress, "extracting")

	results := make([]extract.PageResult, maxPages)
	g := new(errgroup.Group)
	g.SetLimit(r.cfg.PageWorkers)
	for n := 1; n <= maxPages; n++ {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			results[n-1] = r.pages.Page(ctx, doc, n, forceOCR)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ExtractionResult{}, err
	}
	if ctx.Err() != nil {
		return ExtractionResult{}, ctx.Err()
	}

	report(progress, "segmenting")

	// Concatenate in page-ordinal order; pages that produced nothing are
	// skipped entirely.
	var sb strings.Builder
	for _, pr := range results {
		if strings.TrimSpace(pr.Text) == "" {
			continue
		}
		fmt.Fprintf(&sb, "=== PAGE %d ===\n%s\n\n", pr.Page, pr.Text)
	}
	text := sb.String()

	return ExtractionResult{
		Success:   true,
		Text:      text,
		Questions: segment.Questions(text),
	}, nil
}

func (r *Runner) recognizeImage(ctx context.Context, url string, data []byte) ExtractionResult {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return r.failure(url, &docload.DecodeError{Kind: docload.KindImage, Err: err})
	}

	text, err := r.rec.Recognize(ctx, img, ocr.DefaultOptions())
	if err != nil {
		return r.failure(url, err)
	}

	return ExtractionResult{
		Success:   true,
		Text:      text,
		Questions: segment.Questions(text),
	}
}

func (r *Runner) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	var lastErr error
	for attempt := range MaxRetries {
		data, lastErr = r.loader.Fetch(ctx, url)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		r.log.Warn("retryable fetch error", "url", url, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return data, lastErr
}

func (r *Runner) failure(url string, err error) ExtractionResult {
	if errors.Is(err, context.DeadlineExceeded) {
		r.log.Warn("extraction timed out", "url", url)
		return ExtractionResult{Error: "PDF extraction timeout"}
	}
	r.log.Error("extraction failed", "url", url, "error", err)
	return ExtractionResult{Error: err.Error()}
}
