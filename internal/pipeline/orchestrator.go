package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator runs extraction jobs on a bounded worker pool with a TTL'd
// in-memory job registry for status polling.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	runner *Runner
	log    *slog.Logger

	workerCount  int
	maxQueueSize int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(runner *Runner, workerCount, maxQueueSize int, jobTTL time.Duration, log *slog.Logger) *Orchestrator {
	if workerCount <= 0 {
		workerCount = 2
	}
	if maxQueueSize <= 0 {
		maxQueueSize = 50
	}
	return &Orchestrator{
		jobs:         NewJobStore(jobTTL),
		queue:        make(chan *Job, maxQueueSize),
		runner:       runner,
		log:          log,
		workerCount:  workerCount,
		maxQueueSize: maxQueueSize,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.workerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

func (o *Orchestrator) process(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "url", job.URL, "source", job.Source)
	job.SetStatus(StatusRunning, "fetching")
	log.Info("job started")

	progress := func(phase string) {
		job.SetStatus(StatusRunning, phase)
	}

	var res ExtractionResult
	switch job.Source {
	case SourceImage:
		res = o.runner.RunImageWithProgress(ctx, job.URL, progress)
	default:
		res = o.runner.RunWithProgress(ctx, job.URL, job.ForceOCR, progress)
	}
	job.SetResult(res)

	if res.Success {
		log.Info("job completed", "questions", len(res.Questions), "text_chars", len(res.Text))
	} else {
		log.Warn("job failed", "error", res.Error)
	}
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.maxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Runner exposes the underlying runner for synchronous extraction.
func (o *Orchestrator) Runner() *Runner {
	return o.runner
}
