// Package extract pulls text out of a single document page, preferring
// the embedded text layer and falling back to OCR when the layer is thin
// or the caller forces recognition.
package extract

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hritik013/pyqhub/internal/ocr"
)

// Provenance records which method produced a page's text.
type Provenance string

const (
	ProvenanceTextLayer Provenance = "text-layer"
	ProvenanceOCR       Provenance = "ocr"
	ProvenanceNone      Provenance = "none"
)

// PageResult is the outcome for one page. Text may be empty; a page that
// errored contributes nothing but never fails the run.
type PageResult struct {
	Page       int        `json:"page"`
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Source is the page-addressable view of a document the extractor needs.
// *docload.Document satisfies it.
type Source interface {
	TextLayer(n int) (string, error)
	RenderPage(n int, scale float64) (image.Image, error)
}

// Config tunes the extraction decision rule and OCR budget.
type Config struct {
	// MinTextLayer is the normalized text-layer length below which OCR
	// kicks in.
	MinTextLayer int
	// OCRScale is the render scale for OCR-quality rasters.
	OCRScale float64
	// OCRTimeout bounds a page's recognition attempts as a whole.
	OCRTimeout time.Duration
	// OCRRetryDelay spaces retries after a transient engine failure.
	OCRRetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinTextLayer:  50,
		OCRScale:      2.0,
		OCRTimeout:    45 * time.Second,
		OCRRetryDelay: time.Second,
	}
}

// PageExtractor orchestrates text-layer extraction and the OCR fallback.
type PageExtractor struct {
	rec ocr.Recognizer
	cfg Config
	log *slog.Logger
}

func NewPageExtractor(rec ocr.Recognizer, cfg Config, log *slog.Logger) *PageExtractor {
	if cfg.MinTextLayer <= 0 {
		cfg.MinTextLayer = 50
	}
	if cfg.OCRScale <= 0 {
		cfg.OCRScale = 2.0
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 45 * time.Second
	}
	if cfg.OCRRetryDelay <= 0 {
		cfg.OCRRetryDelay = time.Second
	}
	return &PageExtractor{rec: rec, cfg: cfg, log: log}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses whitespace runs to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Page extracts text from page n. OCR runs when forced or when the
// normalized text layer is shorter than MinTextLayer; non-empty OCR output
// replaces the text layer outright, while OCR failure silently keeps
// whatever the text layer gave. Errors never escape: a page that cannot be
// processed comes back with empty text and ProvenanceNone.
func (e *PageExtractor) Page(ctx context.Context, doc Source, n int, forceOCR bool) PageResult {
	log := e.log.With("page", n)

	textLayer := ""
	if layer, err := doc.TextLayer(n); err != nil {
		log.Warn("text layer extraction failed", "error", err)
	} else {
		textLayer = NormalizeWhitespace(layer)
	}

	text := textLayer
	provenance := ProvenanceTextLayer

	if forceOCR || len(textLayer) < e.cfg.MinTextLayer {
		if ocrText := e.recognizePage(ctx, doc, n, log); strings.TrimSpace(ocrText) != "" {
			text = ocrText
			provenance = ProvenanceOCR
		}
	}

	if strings.TrimSpace(text) == "" {
		return PageResult{Page: n, Provenance: ProvenanceNone}
	}
	return PageResult{Page: n, Text: text, Provenance: provenance}
}

// ocrRetries bounds recognition attempts against a transiently failing
// engine (rate limiting, remote 5xx).
const ocrRetries = 3

// recognizePage renders page n at OCR scale and runs the recognizer under
// its own deadline, retrying transient engine failures. All failures are
// recovered: the caller falls back to the text layer.
func (e *PageExtractor) recognizePage(ctx context.Context, doc Source, n int, log *slog.Logger) string {
	img, err := doc.RenderPage(n, e.cfg.OCRScale)
	if err != nil {
		log.Warn("page render failed, keeping text layer", "error", err)
		return ""
	}

	ocrCtx, cancel := context.WithTimeout(ctx, e.cfg.OCRTimeout)
	defer cancel()

	var text string
	for attempt := range ocrRetries {
		text, err = e.rec.Recognize(ocrCtx, img, ocr.DefaultOptions())
		if err == nil {
			break
		}
		var recErr *ocr.RecognitionError
		if attempt == ocrRetries-1 || !errors.As(err, &recErr) || !recErr.Retryable() {
			log.Warn("ocr failed, keeping text layer", "error", err)
			return ""
		}
		log.Warn("retryable ocr error", "attempt", attempt, "error", err)
		select {
		case <-time.After(e.cfg.OCRRetryDelay << attempt):
		case <-ocrCtx.Done():
			log.Warn("ocr failed, keeping text layer", "error", ocrCtx.Err())
			return ""
		}
	}
	if strings.TrimSpace(text) == "" {
		log.Debug("ocr returned empty text")
		return ""
	}
	log.Debug("ocr extracted text", "chars", len(text))
	return text
}
