package docload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(1<<20, 5*time.Second)
	_, err := l.Fetch(context.Background(), srv.URL+"/missing.pdf")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
	}
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	l := NewLoader(1024, 5*time.Second)
	if _, err := l.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for oversized document")
	}
}

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	l := NewLoader(1<<20, 5*time.Second)
	data, err := l.Fetch(context.Background(), srv.URL+"/paper.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("unexpected body %q", data)
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		url  string
		data []byte
		want Kind
	}{
		{"pdf magic", "http://x/file", []byte("%PDF-1.7 ..."), KindPDF},
		{"docx magic", "http://x/file", []byte("PK\x03\x04rest"), KindDOCX},
		{"png magic", "http://x/file", []byte("\x89PNG\r\n\x1a\nrest"), KindImage},
		{"jpeg magic", "http://x/file", []byte("\xff\xd8\xffrest"), KindImage},
		{"docx extension", "http://x/paper.docx", []byte("unknown"), KindDOCX},
		{"jpg extension with query", "http://x/scan.jpg?token=1", []byte("unknown"), KindImage},
		{"default pdf", "http://x/paper", []byte("unknown"), KindPDF},
	}
	for _, tt := range tests {
		if got := DetectKind(tt.url, tt.data); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestOpen_GarbageBytes(t *testing.T) {
	l := NewLoader(1<<20, 5*time.Second)
	_, err := l.Open([]byte("not a pdf at all"), KindPDF)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestHTMLTitle(t *testing.T) {
	page := []byte(`<!DOCTYPE html><html><head><title>Sign in to view</title></head><body></body></html>`)
	if got := htmlTitle(page); got != "Sign in to view" {
		t.Errorf("expected title, got %q", got)
	}
	if got := htmlTitle([]byte("%PDF-1.4 binary")); got != "" {
		t.Errorf("expected empty title for non-HTML, got %q", got)
	}
}

func TestHTMLTitle_InDecodeError(t *testing.T) {
	page := []byte(`<html><head><title>Shared file</title></head><body>viewer</body></html>`)
	l := NewLoader(1<<20, 5*time.Second)
	_, err := l.Open(page, KindPDF)
	if err == nil {
		t.Fatal("expected decode error for HTML page")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.PageTitle != "Shared file" {
		t.Errorf("expected page title in decode error, got %q", decodeErr.PageTitle)
	}
}
