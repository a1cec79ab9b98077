package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// JobSource says which extraction path a job takes.
type JobSource string

const (
	SourceDocument JobSource = "document"
	SourceImage    JobSource = "image"
)

// Job tracks one asynchronous extraction run.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	URL      string    `json:"url"`
	Source   JobSource `json:"source"`
	ForceOCR bool      `json:"force_ocr"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Set once when the run finishes.
	result *ExtractionResult
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetResult records the finished run and moves the job to its terminal
// status based on the result's Success flag.
func (j *Job) SetResult(res ExtractionResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	if res.Success {
		j.Status = StatusCompleted
	} else {
		j.Status = StatusFailed
	}
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// LastUpdated returns the job's last transition time under the job mutex,
// so store cleanup never races with SetStatus/SetResult.
func (j *Job) LastUpdated() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string            `json:"job_id"`
	URL      string            `json:"url"`
	Source   JobSource         `json:"source"`
	ForceOCR bool              `json:"force_ocr"`
	Status   JobStatus         `json:"status"`
	Phase    string            `json:"phase"`
	Result   *ExtractionResult `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:       j.ID,
		URL:      j.URL,
		Source:   j.Source,
		ForceOCR: j.ForceOCR,
		Status:   j.Status,
		Phase:    j.Phase,
	}
	if j.result != nil {
		res := *j.result
		snap.Result = &res
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.LastUpdated()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
