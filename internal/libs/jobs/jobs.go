// Package jobs tracks catalog reload jobs and lets callers wait on their outcome.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistory is the number of finished jobs a queue remembers
const DefaultHistory = 50

// Status is the lifecycle state of a job
type Status string

// Job states
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job represents one fetch-and-rebuild of the catalog
type Job struct {
	ID        string
	Source    string
	CreatedAt time.Time

	mu         sync.Mutex
	status     Status
	err        error
	families   int
	startedAt  time.Time
	finishedAt time.Time
	done       chan struct{}
}

// Info is a point-in-time copy of a job's state
type Info struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	Families   int        `json:"families"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Start marks the job as running
func (j *Job) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusPending {
		j.status = StatusRunning
		j.startedAt = time.Now()
	}
}

// Succeed marks the job done with the number of families indexed
func (j *Job) Succeed(families int) {
	j.finish(StatusSucceeded, families, nil)
}

// Fail marks the job done with err
func (j *Job) Fail(err error) {
	j.finish(StatusFailed, 0, err)
}

func (j *Job) finish(status Status, families int, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusSucceeded || j.status == StatusFailed {
		return
	}
	if j.startedAt.IsZero() {
		j.startedAt = time.Now()
	}
	j.status = status
	j.families = families
	j.err = err
	j.finishedAt = time.Now()
	close(j.done)
}

// Done is closed once the job has succeeded or failed
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns its error.
// Returns ctx.Err() if the context ends first.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the failure cause, or nil
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Status returns the current state
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Info returns a copy of the job's state
func (j *Job) Info() Info {
	j.mu.Lock()
	defer j.mu.Unlock()

	info := Info{
		ID:        j.ID,
		Source:    j.Source,
		Status:    j.status,
		Families:  j.families,
		CreatedAt: j.CreatedAt,
	}
	if j.err != nil {
		info.Error = j.err.Error()
	}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		info.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		info.FinishedAt = &t
	}
	return info
}

// ErrNotFound is returned for unknown job IDs
var ErrNotFound = errors.New("job not found")

// Queue manages reload jobs, keeping a bounded history
type Queue struct {
	mu      sync.Mutex
	jobs    []*Job
	byID    map[string]*Job
	history int
}

// NewQueue creates a new job queue remembering up to history jobs.
// A non-positive history uses DefaultHistory.
func NewQueue(history int) *Queue {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Queue{
		jobs:    make([]*Job, 0),
		byID:    make(map[string]*Job),
		history: history,
	}
}

// Enqueue registers a pending job for source
func (q *Queue) Enqueue(source string) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now(),
		status:    StatusPending,
		done:      make(chan struct{}),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	q.byID[job.ID] = job
	for len(q.jobs) > q.history {
		delete(q.byID, q.jobs[0].ID)
		q.jobs = q.jobs[1:]
	}
	return job
}

// Get returns the job with id
func (q *Queue) Get(id string) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job, nil
}

// Latest returns the most recently enqueued job, or nil
func (q *Queue) Latest() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil
	}
	return q.jobs[len(q.jobs)-1]
}

// Count returns the number of jobs in the queue
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
