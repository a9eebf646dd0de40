package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"biolens/internal/rag"
)

// Status is the lifecycle state of a background ingestion job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job tracks one background ingestion. Result is set only when the job is
// done; Error only when it failed.
type Job struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Status    Status            `json:"status"`
	Result    *rag.IngestResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Tracker is an in-memory registry of ingestion jobs for status polling.
// Jobs are ephemeral; they do not survive a restart.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*Job)}
}

// Create registers a queued job for the given source and returns it.
func (t *Tracker) Create(source string) Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.mu.Lock()
	t.jobs[job.ID] = job
	t.mu.Unlock()
	return *job
}

// Get returns a snapshot of the job, if known.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Start marks the job as running.
func (t *Tracker) Start(id string) {
	t.update(id, func(job *Job) {
		job.Status = StatusRunning
	})
}

// Complete marks the job done and records the ingest result.
func (t *Tracker) Complete(id string, result rag.IngestResult) {
	t.update(id, func(job *Job) {
		job.Status = StatusDone
		job.Result = &result
	})
}

// Fail marks the job failed and records the error message.
func (t *Tracker) Fail(id string, err error) {
	t.update(id, func(job *Job) {
		job.Status = StatusFailed
		job.Error = err.Error()
	})
}

func (t *Tracker) update(id string, fn func(*Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}
