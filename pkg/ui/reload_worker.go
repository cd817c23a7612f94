package ui

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/watcher"
)

// WorkerState represents the current state of the reload worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading outlines.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("WorkerState(%d)", int(s))
	}
}

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load" or "hash"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures so far
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// OutlineSnapshot is one successful load of the watched outline files.
type OutlineSnapshot struct {
	Docs     []*model.Document
	Hash     string // content hash of Docs
	LoadedAt time.Time
}

// OutlineReloadedMsg is sent to the UI when the outlines changed on disk.
// The UI rebuilds its tree from Snapshot on its own goroutine.
type OutlineReloadedMsg struct {
	Snapshot *OutlineSnapshot
}

// ReloadErrorMsg is sent to the UI when reloading fails.
type ReloadErrorMsg struct {
	Err         error
	Recoverable bool // true if the next file change may fix it
}

// ReloadWorker watches outline files and reloads them off the UI goroutine.
// It coalesces changes that arrive while a load is running and skips loads
// whose content did not change.
type ReloadWorker struct {
	paths         []string
	debounceDelay time.Duration

	mu         sync.RWMutex
	state      WorkerState
	dirty      bool // a change came in while processing
	snapshot   *OutlineSnapshot
	started    bool
	lastHash   string
	lastError  *WorkerError
	errorCount int

	watcher *watcher.Watcher
	program *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerConfig configures the ReloadWorker.
type WorkerConfig struct {
	Paths         []string
	DebounceDelay time.Duration
	Program       *tea.Program // receives OutlineReloadedMsg and ReloadErrorMsg; may be nil
}

// NewReloadWorker creates a reload worker. With no paths it never reloads.
func NewReloadWorker(cfg WorkerConfig) (*ReloadWorker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = watcher.DefaultDebounce
	}

	w := &ReloadWorker{
		paths:         cfg.Paths,
		debounceDelay: cfg.DebounceDelay,
		program:       cfg.Program,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	if len(cfg.Paths) > 0 {
		fw, err := watcher.NewWatcher(cfg.Paths, watcher.WithDebounceDuration(cfg.DebounceDelay))
		if err != nil {
			cancel()
			return nil, err
		}
		w.watcher = fw
	}
	return w, nil
}

// Start begins watching. Start is idempotent.
func (w *ReloadWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.watcher == nil {
		close(w.done)
		return nil
	}
	if err := w.watcher.Start(); err != nil {
		close(w.done)
		return err
	}
	go w.processLoop()
	return nil
}

// Stop halts the worker. Stop is idempotent.
func (w *ReloadWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()
	if w.watcher != nil {
		w.watcher.Stop()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// TriggerRefresh reloads now. A refresh during a running load is coalesced
// into one more load afterwards.
func (w *ReloadWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// Snapshot returns the latest successful load, or nil.
func (w *ReloadWorker) Snapshot() *OutlineSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

// State returns the current worker state.
func (w *ReloadWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Paths returns the watched outline files.
func (w *ReloadWorker) Paths() []string {
	return w.paths
}

func (w *ReloadWorker) processLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.watcher.Changed():
			w.process()
		}
	}
}

func (w *ReloadWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	snapshot := w.buildSnapshot()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if snapshot != nil {
		w.snapshot = snapshot
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if w.program != nil && snapshot != nil {
		w.program.Send(OutlineReloadedMsg{Snapshot: snapshot})
	}
	if wasDirty {
		go w.process()
	}
}

// safeCompute runs fn, turning errors and panics into a WorkerError.
func (w *ReloadWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
		}
	}()
	return result
}

func (w *ReloadWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
}

// LastError returns the most recent error, nil after a success.
func (w *ReloadWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// buildSnapshot loads every path. It returns nil when there is nothing to
// load, the load failed, or the content is unchanged.
func (w *ReloadWorker) buildSnapshot() *OutlineSnapshot {
	if len(w.paths) == 0 {
		return nil
	}
	start := time.Now()

	var docs []*model.Document
	if werr := w.safeCompute("load", func() error {
		var err error
		docs, err = loader.LoadFiles(w.ctx, w.paths)
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	var hash string
	if werr := w.safeCompute("hash", func() error {
		var err error
		hash, err = contentHash(docs)
		return err
	}); werr != nil {
		w.fail(werr)
		return nil
	}

	w.mu.RLock()
	unchanged := hash == w.lastHash && w.lastHash != ""
	w.mu.RUnlock()
	w.recordError(nil)
	if unchanged {
		logger.Debug("outline reload skipped, content unchanged", "hash", hashPrefix(hash))
		return nil
	}

	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	logger.Info("outlines reloaded", "files", len(docs), "hash", hashPrefix(hash), "took", time.Since(start))
	return &OutlineSnapshot{Docs: docs, Hash: hash, LoadedAt: time.Now()}
}

func (w *ReloadWorker) fail(werr *WorkerError) {
	logger.Warn("outline reload failed", "phase", werr.Phase, "error", werr.Cause)
	w.recordError(werr)
	if w.program != nil {
		w.program.Send(ReloadErrorMsg{Err: werr, Recoverable: true})
	}
}

// contentHash hashes the decoded documents so that formatting-only edits
// do not trigger a rebuild.
func contentHash(docs []*model.Document) (string, error) {
	data, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// LastHash returns the content hash of the last successful load.
func (w *ReloadWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// ResetHash forces the next load to be delivered even if unchanged.
func (w *ReloadWorker) ResetHash() {
	w.mu.Lock()
	w.lastHash = ""
	w.mu.Unlock()
}

// hashPrefix returns up to 16 characters of hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
