package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the broker manifest file and reloads it after
// changes. Rapid editor save sequences are debounced so a single
// reload fires per burst.
type Watcher struct {
	path     string
	maxSize  int64
	interval time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
}

// DefaultDebounceInterval is the quiet period before a reload fires.
const DefaultDebounceInterval = 250 * time.Millisecond

// NewWatcher creates a watcher for the manifest at path.
func NewWatcher(path string, maxSize int64, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		maxSize:  maxSize,
		interval: interval,
		watcher:  fw,
		logger:   logger.With("component", "manifest-watcher"),
	}, nil
}

// Watch blocks until the context is cancelled, invoking onReload with
// the freshly loaded broker list after each debounced change. A load
// failure is logged and watching continues with the previous manifest.
func (w *Watcher) Watch(ctx context.Context, onReload func([]Broker)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory rather than the file: editors replace files
	// on save, which drops a direct file watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch manifest directory: %w", err)
	}

	w.logger.Info("Manifest watcher started",
		"path", w.path,
		"debounce_ms", w.interval.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Manifest watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Manifest change detected", "op", event.Op.String())
			w.schedule(func() { w.reload(onReload) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Manifest watcher error", "error", err)
		}
	}
}

// Close stops the underlying fsnotify watcher and any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

// schedule resets the debounce timer with a new callback.
func (w *Watcher) schedule(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, fn)
}

func (w *Watcher) reload(onReload func([]Broker)) {
	brokers, err := Load(w.path, w.maxSize)
	if err != nil {
		w.logger.Error("Manifest reload failed", "error", err)
		return
	}
	w.logger.Info("Manifest reloaded", "brokers", len(brokers))
	onReload(brokers)
}
