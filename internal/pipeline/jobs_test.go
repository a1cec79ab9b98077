package pipeline

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hritik013/pyqhub/internal/docload"
	"github.com/hritik013/pyqhub/internal/ocr"
)

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		URL:       "http://papers.test/exam.pdf",
		Source:    SourceDocument,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	before := job.UpdatedAt
	time.Sleep(time.Millisecond)
	job.SetStatus(StatusRunning, "extracting")

	if job.Status != StatusRunning {
		t.Errorf("expected status %q, got %q", StatusRunning, job.Status)
	}
	if job.Phase != "extracting" {
		t.Errorf("expected phase %q, got %q", "extracting", job.Phase)
	}
	if !job.UpdatedAt.After(before) {
		t.Error("expected UpdatedAt to advance after SetStatus")
	}
}

func TestJob_SetResultSuccess(t *testing.T) {
	job := &Job{ID: "ok", Status: StatusRunning, UpdatedAt: time.Now()}
	job.SetResult(ExtractionResult{
		Success:   true,
		Text:      "=== PAGE 1 ===\n1. What is a mutex?\n\n",
		Questions: []string{"1. What is a mutex?"},
	})

	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %q", job.Status)
	}
	snap := job.Snapshot()
	if snap.Result == nil {
		t.Fatal("expected result in snapshot")
	}
	if len(snap.Result.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(snap.Result.Questions))
	}
}

func TestJob_SetResultFailure(t *testing.T) {
	job := &Job{ID: "bad", Status: StatusRunning, UpdatedAt: time.Now()}
	job.SetResult(ExtractionResult{Error: "PDF extraction timeout"})

	if job.Status != StatusFailed {
		t.Errorf("expected failed, got %q", job.Status)
	}
	snap := job.Snapshot()
	if snap.Result == nil || snap.Result.Error != "PDF extraction timeout" {
		t.Errorf("expected timeout error in snapshot, got %+v", snap.Result)
	}
}

func TestJob_SnapshotWithoutResult(t *testing.T) {
	job := &Job{ID: "pending", Status: StatusQueued, UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Result != nil {
		t.Error("expected nil result for unfinished job")
	}
	if snap.ID != "pending" || snap.Status != StatusQueued {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupConcurrentWithUpdates(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "busy", Status: StatusRunning, UpdatedAt: time.Now()}
	store.Put(job)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			job.SetStatus(StatusRunning, "extracting")
		}
	}()
	for range 200 {
		store.Cleanup()
	}
	<-done

	if store.Get("busy") == nil {
		t.Error("expected actively updated job to survive cleanup")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
	if IsRetryable(&fakeErr{}) {
		t.Error("arbitrary error should not be retryable")
	}
	for _, code := range []int{429, 500, 503} {
		if !IsRetryable(&docload.FetchError{StatusCode: code}) {
			t.Errorf("expected status %d to be retryable", code)
		}
	}
	for _, code := range []int{400, 403, 404} {
		if IsRetryable(&docload.FetchError{StatusCode: code}) {
			t.Errorf("expected status %d to not be retryable", code)
		}
	}
	for _, code := range []int{429, 500, 503} {
		if !IsRetryable(&ocr.RecognitionError{Engine: "remote", StatusCode: code}) {
			t.Errorf("expected ocr status %d to be retryable", code)
		}
	}
	if IsRetryable(&ocr.RecognitionError{Engine: "tesseract"}) {
		t.Error("local engine failure should not be retryable")
	}
}

func TestIsRetryable_RemoteOCRRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	engine := ocr.NewRemoteEngine(srv.URL, "")
	_, err := engine.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 2, 2)), ocr.DefaultOptions())
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !IsRetryable(err) {
		t.Errorf("expected 429 from remote OCR to be retryable, got %v", err)
	}
}

func TestBackoff_Bounded(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap+jitter", attempt, d)
		}
	}
}

type fakeErr struct{}

func (fakeErr) Error() string { return "boom" }
