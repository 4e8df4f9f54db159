package loader_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dsjohal14/fontstack/internal/libs/jobs"
	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	FetchFn func(ctx context.Context) ([]catalog.Family, error)
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Fetch(ctx context.Context) ([]catalog.Family, error) {
	return s.FetchFn(ctx)
}

func families(names ...string) []catalog.Family {
	out := make([]catalog.Family, len(names))
	for i, n := range names {
		out[i] = catalog.Family{Name: n, Slug: n}
	}
	return out
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("builds index from source", func(t *testing.T) {
		t.Parallel()

		idx := catalog.NewIndex()
		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			return families("b", "a"), nil
		}}
		l := loader.New(src, idx, jobs.NewQueue(10), zerolog.Nop())

		job, err := l.Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, idx.Len())
		assert.Equal(t, "a", idx.All()[0].Name)
		info := job.Info()
		assert.Equal(t, jobs.StatusSucceeded, info.Status)
		assert.Equal(t, 2, info.Families)
		assert.Equal(t, "fake", info.Source)
	})

	t.Run("fetch failure keeps previous index", func(t *testing.T) {
		t.Parallel()

		idx := catalog.NewIndex()
		require.NoError(t, idx.Build(families("kept")))

		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			return nil, errors.New("connection refused")
		}}
		l := loader.New(src, idx, jobs.NewQueue(10), zerolog.Nop())

		job, err := l.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog fetch from fake failed")
		assert.Contains(t, err.Error(), "connection refused")

		_, ok := idx.BySlug("kept")
		assert.True(t, ok)
		assert.Equal(t, jobs.StatusFailed, job.Status())
	})

	t.Run("malformed data keeps previous index", func(t *testing.T) {
		t.Parallel()

		idx := catalog.NewIndex()
		require.NoError(t, idx.Build(families("kept")))

		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			return []catalog.Family{{Name: "no slug"}}, nil
		}}
		l := loader.New(src, idx, jobs.NewQueue(10), zerolog.Nop())

		_, err := l.Load(context.Background())
		require.ErrorIs(t, err, catalog.ErrInvalidData)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("concurrent loads coalesce", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		entered := make(chan struct{})
		release := make(chan struct{})
		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			if calls.Add(1) == 1 {
				close(entered)
			}
			<-release
			return families("x"), nil
		}}
		queue := jobs.NewQueue(10)
		l := loader.New(src, catalog.NewIndex(), queue, zerolog.Nop())

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.Load(context.Background())
				assert.NoError(t, err)
			}()
		}

		<-entered
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		// One fetch for whoever started it, at most one more for loads that
		// arrived while it ran.
		assert.LessOrEqual(t, calls.Load(), int32(2))
		assert.Equal(t, 5, queue.Count())
	})

	t.Run("load arriving mid-fetch sees newer data", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		entered := make(chan struct{})
		release := make(chan struct{})
		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
				return families("old"), nil
			}
			return families("new"), nil
		}}
		idx := catalog.NewIndex()
		l := loader.New(src, idx, jobs.NewQueue(10), zerolog.Nop())

		first := l.Start(context.Background())
		<-entered

		second := make(chan error, 1)
		go func() {
			_, err := l.Load(context.Background())
			second <- err
		}()

		time.Sleep(100 * time.Millisecond)
		close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, first.Wait(ctx))
		require.NoError(t, <-second)

		assert.Equal(t, int32(2), calls.Load())
		_, ok := idx.BySlug("new")
		assert.True(t, ok, "second load should refetch after the stale flight")
		_, ok = idx.BySlug("old")
		assert.False(t, ok)
	})
}

func TestLoader_Start(t *testing.T) {
	t.Parallel()

	t.Run("returns job that completes", func(t *testing.T) {
		t.Parallel()

		idx := catalog.NewIndex()
		src := &fakeSource{FetchFn: func(context.Context) ([]catalog.Family, error) {
			return families("a"), nil
		}}
		l := loader.New(src, idx, jobs.NewQueue(10), zerolog.Nop())

		job := l.Start(context.Background())
		require.NotNil(t, job)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, job.Wait(ctx))
		assert.Equal(t, 1, idx.Len())
		assert.Same(t, job, l.Jobs().Latest())
	})

	t.Run("cancelled context fails job", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{FetchFn: func(ctx context.Context) ([]catalog.Family, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		l := loader.New(src, catalog.NewIndex(), jobs.NewQueue(10), zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		job := l.Start(ctx)
		cancel()

		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer waitCancel()
		<-job.Done()
		require.ErrorIs(t, job.Wait(waitCtx), context.Canceled)
	})
}
