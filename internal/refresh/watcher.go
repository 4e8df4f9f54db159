package refresh

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

var _ Connector = (*FileWatcher)(nil)

// DefaultDebounce collapses bursts of writes (editors often save in several steps)
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher reloads the catalog when the catalog file changes
type FileWatcher struct {
	*BaseConnector
	reloader Reloader
	path     string
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewFileWatcher creates a connector that reloads via r whenever path changes.
// A non-positive debounce uses DefaultDebounce.
func NewFileWatcher(r Reloader, path string, debounce time.Duration, logger zerolog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		BaseConnector: NewBaseConnector("file-watch"),
		reloader:      r,
		path:          path,
		debounce:      debounce,
		logger:        logger,
	}
}

// Start begins watching. The parent directory is watched so files replaced
// by rename are still seen.
func (w *FileWatcher) Start() error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fw != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return err
	}

	w.fw = fw
	w.path = abs
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.stopped = make(chan struct{})
	w.markStarted()

	go w.run(fw, w.stopped)

	w.logger.Info().Str("path", abs).Msg("watching catalog file")
	return nil
}

func (w *FileWatcher) run(fw *fsnotify.Watcher, stopped chan struct{}) {
	defer close(stopped)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("catalog file watcher error")
		}
	}
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fw == nil {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	ctx := w.ctx
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()

		if _, err := w.reloader.Load(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warn().Err(err).Str("path", w.path).Msg("catalog reload after file change failed")
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	fw, stopped := w.fw, w.stopped
	if fw == nil {
		w.mu.Unlock()
		return nil
	}
	w.fw = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	w.mu.Unlock()

	err := fw.Close()
	<-stopped
	return err
}
