// Package watch re-ingests note files as they change on disk.
//
// A Watcher observes one directory through fsnotify and feeds created or
// modified files back through the ingestion service. Editors tend to fire
// bursts of events for a single save, so each path is debounced: the
// ingest runs only after the path has been quiet for the debounce window.
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

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Event reports the outcome of one re-ingestion triggered by a file change.
type Event struct {
	Path   string
	Result *driving.IngestResult
	Err    error
}

// Watcher re-ingests supported files in a directory as they change.
type Watcher struct {
	ingester driving.IngestService
	ownerID  string
	debounce time.Duration

	mu      sync.Mutex
	closed  bool
	pending map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the quiet window before a changed file is
// re-ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher that ingests changed files for the given owner.
func New(ingester driving.IngestService, ownerID string, opts ...Option) *Watcher {
	w := &Watcher{
		ingester: ingester,
		ownerID:  ownerID,
		debounce: defaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch observes dir until ctx is cancelled, emitting one Event per
// debounced file change. The returned channel is closed when watching
// stops. Only files directly under dir are observed; subdirectories,
// hidden files and unsupported formats are ignored.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, errors.New("watcher is closed")
	}
	w.mu.Unlock()

	if w.ingester == nil {
		return nil, fmt.Errorf("ingestion service not configured: %w", domain.ErrNotImplemented)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan Event)
	fire := make(chan string, 16)
	go w.run(ctx, fsw, fire, out)

	logger.Debug("watching %s for changes", dir)
	return out, nil
}

// Close stops all pending re-ingestions. It is safe to call more than
// once; a closed watcher refuses further Watch calls.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	return nil
}

// run owns the event loop and the output channel. Debounce timers never
// touch out directly; they hand the quiet path to the loop via fire so
// that out has a single writer and closes exactly once.
func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, fire chan string, out chan Event) {
	defer close(out)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.schedule(ctx, ev, fire)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		case path := <-fire:
			result, err := w.ingester.Ingest(ctx, path, w.ownerID)
			if errors.Is(err, domain.ErrExcluded) {
				logger.Debug("skipping excluded file %s", filepath.Base(path))
			}
			select {
			case out <- Event{Path: path, Result: result, Err: err}:
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}
}

// schedule arms (or re-arms) the debounce timer for an ingestable event.
func (w *Watcher) schedule(ctx context.Context, ev fsnotify.Event, fire chan string) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	if !ingestable(ev.Name) {
		return
	}

	path := ev.Name
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		select {
		case fire <- path:
		case <-ctx.Done():
		}
	})
}

// ingestable reports whether a changed path is worth re-ingesting:
// a visible regular file in a supported format.
func ingestable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if _, err := domain.FormatFromPath(path); err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
