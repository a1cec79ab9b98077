package papers

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "papers.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &Paper{
		Title:    "Data Structures End Sem 2023",
		Subject:  "Data Structures",
		Branch:   "CSE",
		Semester: 3,
		Year:     2023,
		ExamType: "end-sem",
		FileURL:  "https://files.test/ds-2023.pdf",
		FileKind: "pdf",
	}
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected paper")
	}
	if got.Title != p.Title || got.Year != 2023 {
		t.Errorf("unexpected paper %+v", got)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing paper, got %+v", got)
	}
}

func TestStore_SaveValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &Paper{FileURL: "https://x/y.pdf"}); err == nil {
		t.Error("expected error for missing title")
	}
	if err := s.Save(ctx, &Paper{Title: "No file"}); err == nil {
		t.Error("expected error for missing file_url")
	}
}

func TestStore_ListFiltersAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []Paper{
		{Title: "DS 2022", Subject: "Data Structures", Year: 2022, Semester: 3, FileURL: "https://x/1.pdf"},
		{Title: "DS 2023", Subject: "Data Structures", Year: 2023, Semester: 3, FileURL: "https://x/2.pdf"},
		{Title: "OS 2023", Subject: "Operating Systems", Year: 2023, Semester: 4, FileURL: "https://x/3.pdf"},
	}
	for i := range seed {
		// Stagger created_at so newest-first ordering is observable.
		seed[i].CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 papers, got %d", len(all))
	}
	if all[0].Title != "OS 2023" {
		t.Errorf("expected newest first, got %q", all[0].Title)
	}

	ds, err := s.List(ctx, Filter{Subject: "Data Structures"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(ds) != 2 {
		t.Errorf("expected 2 DS papers, got %d", len(ds))
	}

	y2023, err := s.List(ctx, Filter{Year: 2023, Semester: 4})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(y2023) != 1 || y2023[0].Title != "OS 2023" {
		t.Errorf("unexpected filtered result %+v", y2023)
	}
}
