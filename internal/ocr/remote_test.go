package ocr

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func TestRemoteEngine_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/recognize" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Language != "eng" {
			t.Errorf("expected language eng, got %q", req.Language)
		}
		if req.Image == "" {
			t.Error("expected base64 image payload")
		}
		json.NewEncoder(w).Encode(remoteResponse{Text: "1. What is OCR?"})
	}))
	defer srv.Close()

	engine := NewRemoteEngine(srv.URL, "test-key")
	text, err := engine.Recognize(context.Background(), testImage(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "1. What is OCR?" {
		t.Errorf("expected recognized text, got %q", text)
	}
}

func TestRemoteEngine_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	engine := NewRemoteEngine(srv.URL, "")
	_, err := engine.Recognize(context.Background(), testImage(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	recErr, ok := err.(*RecognitionError)
	if !ok {
		t.Fatalf("expected *RecognitionError, got %T", err)
	}
	if recErr.Engine != "remote" {
		t.Errorf("expected engine remote, got %q", recErr.Engine)
	}
	if recErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500 on the error, got %d", recErr.StatusCode)
	}
	if !recErr.Retryable() {
		t.Error("expected 500 to be retryable")
	}
}

func TestRemoteEngine_StatusClassification(t *testing.T) {
	for _, tc := range []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))

		engine := NewRemoteEngine(srv.URL, "")
		_, err := engine.Recognize(context.Background(), testImage(), DefaultOptions())
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		recErr, ok := err.(*RecognitionError)
		if !ok {
			t.Fatalf("status %d: expected *RecognitionError, got %T", tc.status, err)
		}
		if recErr.Retryable() != tc.retryable {
			t.Errorf("status %d: expected retryable=%v", tc.status, tc.retryable)
		}
	}
}

func TestRemoteEngine_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewRemoteEngine(srv.URL, "")
	if _, err := engine.Recognize(ctx, testImage(), DefaultOptions()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestTesseractArgs(t *testing.T) {
	args := tesseractArgs("/tmp/page.png", DefaultOptions())

	joined := strings.Join(args, " ")
	if args[0] != "/tmp/page.png" || args[1] != "stdout" {
		t.Errorf("expected image path and stdout first, got %v", args[:2])
	}
	if !strings.Contains(joined, "-l eng") {
		t.Errorf("expected language flag, got %q", joined)
	}
	if !strings.Contains(joined, "tessedit_char_whitelist=") {
		t.Errorf("expected whitelist config, got %q", joined)
	}
	if !strings.Contains(joined, "preserve_interword_spaces=1") {
		t.Errorf("expected interword spaces config, got %q", joined)
	}
}

func TestTesseractArgs_DefaultsLanguage(t *testing.T) {
	args := tesseractArgs("p.png", Options{})
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-l eng") {
		t.Errorf("expected default language eng, got %q", joined)
	}
}
