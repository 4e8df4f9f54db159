package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var _ Connector = (*Ticker)(nil)

// Ticker reloads the catalog on a fixed interval
type Ticker struct {
	*BaseConnector
	reloader Reloader
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a connector that calls r.Load every interval
func NewTicker(r Reloader, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		BaseConnector: NewBaseConnector("interval"),
		reloader:      r,
		interval:      interval,
		logger:        logger,
	}
}

// Start launches the reload loop
func (t *Ticker) Start() error {
	if t.interval <= 0 {
		return errors.New("refresh interval must be positive")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	t.markStarted()

	go t.run(ctx, t.done)

	t.logger.Info().Dur("interval", t.interval).Msg("interval refresh started")
	return nil
}

func (t *Ticker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.reloader.Load(ctx); err != nil && ctx.Err() == nil {
				t.logger.Warn().Err(err).Msg("scheduled catalog reload failed")
			}
		}
	}
}

// Stop ends the loop and waits for an in-flight reload to return.
// Safe to call multiple times.
func (t *Ticker) Stop() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
