package redact

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagecraft/quill/pkg/telemetry/logging"
)

// Watcher reloads a validator's custom pattern file when it changes on
// disk. Rapid event bursts are debounced; a file that fails to load
// leaves the previous pattern table active.
type Watcher struct {
	validator *Validator
	watcher   *fsnotify.Watcher
	logger    *logging.Logger
	path      string
	debounce  *debouncer
	onReload  func(ok bool)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WatcherConfig contains configuration for the pattern watcher.
type WatcherConfig struct {
	// Path is the custom pattern file to watch.
	Path string

	// DebounceInterval is the quiet period before a reload fires
	// (default 200ms).
	DebounceInterval time.Duration

	// OnReload, if set, is called after each reload attempt with
	// whether the new file was accepted.
	OnReload func(ok bool)
}

// NewWatcher creates a watcher that reloads validator from cfg.Path on
// change. The file's parent directory is watched so editor rename-swap
// saves are seen.
func NewWatcher(validator *Validator, cfg WatcherConfig, logger *logging.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("pattern watcher requires a path")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		validator: validator,
		watcher:   fsw,
		logger:    logger,
		path:      filepath.Clean(cfg.Path),
		debounce:  newDebouncer(cfg.DebounceInterval),
		onReload:  cfg.OnReload,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Watch blocks, reloading the pattern file on change, until ctx is
// cancelled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("pattern watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("pattern watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pattern watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("pattern watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("pattern file event", "path", event.Name, "op", event.Op.String())

			w.debounce.trigger(func() {
				err := w.validator.LoadCustomFile(w.path)
				if w.onReload != nil {
					w.onReload(err == nil)
				}
				if err != nil {
					w.logger.Warn("pattern reload failed, keeping previous set",
						"path", w.path,
						"error", err,
					)
					return
				}
				w.logger.Info("pattern set reloaded", "path", w.path)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite transient errors.
			w.logger.Error("pattern watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for Watch to return.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

// shouldProcessEvent keeps only write-ish events for the watched file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

// debouncer collapses rapid event bursts into one callback after a quiet
// period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// trigger schedules callback after the quiet period, resetting any
// pending schedule.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
