// Package loader runs the fetch-then-build flow that populates the catalog index.
package loader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dsjohal14/fontstack/internal/libs/jobs"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Source supplies raw catalog families
type Source interface {
	// Name identifies the source in logs and job records
	Name() string

	// Fetch returns the full family list. The context controls timeout and cancellation.
	Fetch(ctx context.Context) ([]catalog.Family, error)
}

// Loader fetches the catalog from a source and rebuilds the index with it.
// Concurrent loads share a single outstanding fetch. A load requested after
// that fetch began waits for it and then fetches again, so it never settles
// for data read before it was asked for.
type Loader struct {
	source    Source
	index     *catalog.Index
	jobs      *jobs.Queue
	logger    zerolog.Logger
	group     singleflight.Group
	requested atomic.Uint64
}

// flight is the shared result of one fetch; gen is the last request it covers
type flight struct {
	families int
	gen      uint64
}

// New creates a loader feeding index from source and recording runs in queue
func New(source Source, index *catalog.Index, queue *jobs.Queue, logger zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		index:  index,
		jobs:   queue,
		logger: logger,
	}
}

// Jobs returns the queue recording load runs
func (l *Loader) Jobs() *jobs.Queue {
	return l.jobs
}

// Load fetches and rebuilds synchronously.
// On failure the index keeps its previous contents.
func (l *Loader) Load(ctx context.Context) (*jobs.Job, error) {
	job := l.jobs.Enqueue(l.source.Name())
	return job, l.run(ctx, job)
}

// Start runs a load in the background and returns its job immediately.
// Cancelling ctx aborts the fetch; use Job.Wait for the outcome.
func (l *Loader) Start(ctx context.Context) *jobs.Job {
	job := l.jobs.Enqueue(l.source.Name())
	go func() {
		_ = l.run(ctx, job)
	}()
	return job
}

func (l *Loader) run(ctx context.Context, job *jobs.Job) error {
	job.Start()
	want := l.requested.Add(1)

	for {
		v, err, shared := l.group.Do("load", func() (interface{}, error) {
			gen := l.requested.Load()
			n, err := l.fetchAndBuild(ctx)
			return flight{families: n, gen: gen}, err
		})
		if err != nil {
			l.logger.Error().Err(err).Str("job_id", job.ID).Bool("shared", shared).Msg("catalog load failed")
			job.Fail(err)
			return err
		}

		res := v.(flight)
		if res.gen < want {
			l.logger.Debug().Str("job_id", job.ID).Msg("joined a fetch that predates this load, fetching again")
			continue
		}

		job.Succeed(res.families)
		l.logger.Debug().Str("job_id", job.ID).Bool("shared", shared).Int("families", res.families).Msg("catalog load job done")
		return nil
	}
}

func (l *Loader) fetchAndBuild(ctx context.Context) (int, error) {
	begin := time.Now()

	families, err := l.source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog fetch from %s failed: %w", l.source.Name(), err)
	}

	if err := l.index.Build(families); err != nil {
		return 0, fmt.Errorf("catalog rebuild failed: %w", err)
	}

	snap := l.index.Snapshot()
	l.logger.Info().
		Str("source", l.source.Name()).
		Int("families", snap.Len()).
		Str("fingerprint", snap.Fingerprint()).
		Dur("duration", time.Since(begin)).
		Msg("catalog index rebuilt")

	return snap.Len(), nil
}
