package pipeline

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/hritik013/pyqhub/internal/docload"
	"github.com/hritik013/pyqhub/internal/ocr"
)

// IsRetryable checks if an error is worth retrying: rate limiting and
// server-side failures from a fetch or a remote OCR engine are; client
// errors and decode failures are not.
func IsRetryable(err error) bool {
	var fetchErr *docload.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode >= 500
	}
	var recErr *ocr.RecognitionError
	if errors.As(err, &recErr) {
		return recErr.Retryable()
	}
	return false
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
