package macromap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period the watcher waits for after
// a file event before triggering a reload.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher watches the rule and alias documents for changes and triggers a
// manager reload. Rapid event bursts (editors writing temp files, both
// documents changing together) are debounced into a single reload.
type Watcher struct {
	manager  *Manager
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *Debouncer
	targets  map[string]struct{}

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// NewWatcher creates a watcher for the manager's document paths. The
// debounce interval falls back to DefaultDebounceInterval when zero.
func NewWatcher(manager *Manager, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	rulePath, aliasPath := manager.Paths()
	targets := map[string]struct{}{
		filepath.Clean(rulePath):  {},
		filepath.Clean(aliasPath): {},
	}

	return &Watcher{
		manager:  manager,
		watcher:  fsw,
		logger:   logger.With("component", "macromap.watcher"),
		debounce: NewDebouncer(debounce),
		targets:  targets,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching and blocks until the context is cancelled or Stop
// is called. The parent directories of both documents are watched so that
// atomic rename-into-place writes are seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dirs := make(map[string]struct{})
	for target := range w.targets {
		dirs[filepath.Dir(target)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	w.logger.Info("document watcher started",
		"targets", len(w.targets),
		"debounce_ms", w.debounce.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("document watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("document watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("document event detected", "path", event.Name, "op", event.Op.String())

			w.debounce.Trigger(func() {
				w.logger.Info("triggering configuration reload", "path", event.Name)
				if err := w.manager.Reload(context.Background()); err != nil {
					w.logger.Error("configuration reload failed, previous generation kept", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("document watcher error", "error", err)
			// Keep watching despite errors.
		}
	}
}

// Stop stops the watcher, waits for the event loop to exit and releases
// the underlying file watcher. It is safe to call more than once, and it
// releases the file watcher even when the event loop already exited on
// its own through context cancellation.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)

		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if running {
			<-w.doneCh
		}

		w.debounce.Stop()

		if err := w.watcher.Close(); err != nil {
			w.stopErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return w.stopErr
}

// shouldProcessEvent filters events down to writes of the watched
// documents themselves.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	_, ok := w.targets[filepath.Clean(event.Name)]
	return ok
}

// Debouncer collapses rapid event bursts and triggers the callback only
// after a quiet period.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer with a new event. The callback runs after the
// debounce interval unless another event arrives first.
func (d *Debouncer) Trigger(callback func()) {
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
		}

		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
