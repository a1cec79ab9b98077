// Package ocr wraps external OCR engines behind a single Recognizer
// interface. Engines may be slow (seconds per image) and occasionally
// return empty text; callers are expected to impose their own deadline
// through the context.
package ocr

import (
	"context"
	"fmt"
	"image"
	"net/http"
)

// CharWhitelist restricts recognition to ASCII letters, digits, and common
// punctuation, which noticeably reduces OCR garbage on printed exam papers.
const CharWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,;:?!()[]{}-'\"\n\r\t "

// Options configure a single recognition call.
type Options struct {
	Language       string
	Whitelist      string
	PreserveSpaces bool
}

// DefaultOptions returns the options used for exam-paper pages.
func DefaultOptions() Options {
	return Options{
		Language:       "eng",
		Whitelist:      CharWhitelist,
		PreserveSpaces: true,
	}
}

// Recognizer converts a rendered page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, opts Options) (string, error)
}

// RecognitionError reports a failed OCR call, including engine identity so
// logs can tell local and remote failures apart. StatusCode carries the
// upstream HTTP status for remote engines and is zero otherwise.
type RecognitionError struct {
	Engine     string
	StatusCode int
	Err        error
}

// Retryable reports whether the failure is transient: rate limiting or a
// server-side error from a remote engine.
func (e *RecognitionError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("ocr (%s): %s", e.Engine, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}
