// Package docload fetches exam papers by URL and decodes them into
// page-addressable documents: page count, per-page text layer, and
// per-page raster rendering for OCR. Nothing is cached across calls;
// every load re-fetches and re-decodes.
package docload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

// Kind is the content kind of a fetched document.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindDOCX  Kind = "docx"
	KindImage Kind = "image"
)

// Loader fetches document bytes over HTTP.
type Loader struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewLoader(maxBytes int64, timeout time.Duration) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch retrieves the raw bytes at url. Non-2xx responses and transport
// failures come back as *FetchError.
func (l *Loader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("document exceeds %d bytes", l.maxBytes)}
	}
	return data, nil
}

// DetectKind guesses the content kind from magic bytes, falling back to
// the URL's file extension.
func DetectKind(url string, data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return KindPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return KindDOCX
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")),
		bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return KindImage
	}

	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".docx":
		return KindDOCX
	case ".png", ".jpg", ".jpeg", ".webp":
		return KindImage
	default:
		return KindPDF
	}
}
