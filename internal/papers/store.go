// Package papers stores metadata for uploaded question papers. The files
// themselves live on the external host; only their URLs are kept here.
package papers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Paper is one uploaded question paper.
type Paper struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Title      string    `json:"title"`
	Subject    string    `gorm:"index" json:"subject"`
	Branch     string    `json:"branch"`
	Semester   int       `gorm:"index" json:"semester"`
	Year       int       `gorm:"index" json:"year"`
	ExamType   string    `json:"exam_type"`
	FileURL    string    `json:"file_url"`
	FileKind   string    `json:"file_kind"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter narrows a listing. Zero values mean "any".
type Filter struct {
	Subject  string
	Year     int
	Semester int
}

// Store wraps the metadata database.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open papers db: %w", err)
	}
	if err := db.AutoMigrate(&Paper{}); err != nil {
		return nil, fmt.Errorf("migrate papers db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save validates and persists a paper, assigning an ID when absent.
func (s *Store) Save(ctx context.Context, p *Paper) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(p.FileURL) == "" {
		return fmt.Errorf("file_url is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("save paper: %w", err)
	}
	return nil
}

// List returns papers newest-first, narrowed by the filter.
func (s *Store) List(ctx context.Context, f Filter) ([]Paper, error) {
	q := s.db.WithContext(ctx).Model(&Paper{})
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Semester != 0 {
		q = q.Where("semester = ?", f.Semester)
	}

	var papers []Paper
	if err := q.Order("created_at DESC").Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, nil
}

// Get returns one paper by ID, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Paper, error) {
	var p Paper
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}
	return &p, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
