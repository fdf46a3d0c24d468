// Package watch renames PDFs as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
	"github.com/custodia-labs/ramener/internal/core/services"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Defaults for Config.
const (
	DefaultDebounce      = 2 * time.Second
	DefaultRatePerSecond = 0.5
	queueSize            = 64
)

// Config controls a watch run.
type Config struct {
	// Dir is the directory to watch (not recursive).
	Dir string

	// Debounce is how long a file must stay quiet before it is processed.
	Debounce time.Duration

	// RatePerSecond bounds pipeline runs, and so model calls, per second.
	RatePerSecond float64

	DryRun         bool
	FallbackPrefix string

	// OnResult is called after every pipeline run. May be nil.
	OnResult func(path string, result *domain.RenameResult, err error)
}

// Watcher feeds new PDFs in a directory through the rename pipeline, one at a time.
type Watcher struct {
	rename  driving.RenameService
	history driving.HistoryService
	cfg     Config
	limiter *rate.Limiter

	mu       sync.Mutex
	pending  map[string]*time.Timer
	produced map[string]bool
	queue    chan string
}

// New creates a watcher. history may be nil; files written by this watcher
// are still skipped.
func New(rename driving.RenameService, history driving.HistoryService, cfg Config) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}
	return &Watcher{
		rename:   rename,
		history:  history,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		pending:  make(map[string]*time.Timer),
		produced: make(map[string]bool),
		queue:    make(chan string, queueSize),
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filepath.Abs(services.ExpandHome(w.cfg.Dir))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPath, err)
	}
	w.cfg.Dir = dir

	info, err := os.Stat(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidPath, w.cfg.Dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	logger.Info("Watching %s for new PDFs", w.cfg.Dir)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.work(ctx)
	}()

	defer func() {
		w.stopTimers()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.candidate(ev); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// candidate reports whether an event names a PDF worth processing.
func (w *Watcher) candidate(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", false
	}
	path := absPath(ev.Name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.cfg.Debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.queue <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.process(ctx, path)
		}
	}
}

// process runs one independent pipeline for path unless it should be skipped.
func (w *Watcher) process(ctx context.Context, path string) {
	if w.skip(ctx, path) {
		return
	}

	result, err := w.rename.Rename(ctx, driving.RenameRequest{
		Path:           path,
		DryRun:         w.cfg.DryRun,
		FallbackPrefix: w.cfg.FallbackPrefix,
	})
	if err != nil {
		logger.Warn("Skipping %s: %v", filepath.Base(path), err)
	} else {
		w.mu.Lock()
		w.produced[absPath(result.Destination)] = true
		w.mu.Unlock()
	}
	if w.cfg.OnResult != nil {
		w.cfg.OnResult(path, result, err)
	}
}

func (w *Watcher) skip(ctx context.Context, path string) bool {
	path = absPath(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("%s disappeared before processing", path)
		return true
	}

	w.mu.Lock()
	own := w.produced[path]
	w.mu.Unlock()
	if own {
		logger.Debug("%s was written by this watcher", path)
		return true
	}

	if w.history != nil {
		done, err := w.history.IsDestination(ctx, path)
		if err != nil {
			logger.Warn("History lookup failed for %s: %v", path, err)
		}
		if done {
			logger.Debug("%s is the output of an earlier rename", path)
			return true
		}
	}
	return false
}

// absPath matches the absolute destinations the pipeline and ledger record.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
