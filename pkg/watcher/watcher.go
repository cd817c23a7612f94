// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treeview/pkg/logger"
)

// DefaultDebounce is used when no debounce duration is configured.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets how long changes must settle before Changed fires.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher watches files for writes, creates, renames and removals. It
// watches their directories rather than the files so that editors replacing
// a file through rename are still noticed.
type Watcher struct {
	files    map[string]bool // absolute paths
	dirs     []string
	debounce time.Duration

	fs      *fsnotify.Watcher
	changed chan struct{}

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher for paths. Call Start to begin watching.
func NewWatcher(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watcher: no paths given")
	}
	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		debounce: DefaultDebounce,
		changed:  make(chan struct{}, 1),
	}
	seenDir := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watcher: resolve %s: %w", p, err)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It is an error to start a watcher twice.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("watcher: already started")
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.fs = fs
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})
	w.started = true
	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down and waits for its goroutine to exit.
// Stopping a watcher that is not running is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	w.fs.Close()
	done := w.done
	w.mu.Unlock()
	<-done
}

// Changed delivers one value per settled burst of changes. Bursts that
// arrive while a previous signal is still unread are coalesced into it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Paths returns the watched files.
func (w *Watcher) Paths() []string {
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			// Only content-affecting events (not chmod)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Errors are logged but don't stop the watcher
			logger.Warn("file watcher error", "error", err)
		}
	}
}
