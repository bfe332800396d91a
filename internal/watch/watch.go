// Package watch feeds filesystem edits to externally-supplied artifacts
// (workflow inputs with no producing task — e.g. a hand-edited script or
// a music bed dropped in by a sound designer) back into the invalidation
// engine, so a long-running `--watch` session demotes and reschedules
// affected tasks without a restart. Grounded on the example pack's
// pkg/index.Watcher: one fsnotify.Watcher, a debounce map guarded by its
// own mutex, and a stop channel.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lanedrift/reelforge/internal/invalidate"
	"github.com/lanedrift/reelforge/internal/model"
)

// OnInvalidate is called with the artifact and task ids the invalidation
// cascade touched, once per debounced batch of filesystem events.
type OnInvalidate func(artifactIDs, taskIDs []string)

// Watcher watches every externally-supplied artifact's path (an artifact no
// task produces) for writes and invalidates it downstream.
type Watcher struct {
	workdir string
	state   *model.WorkflowState
	onInval OnInvalidate
	debounce time.Duration

	fsw *fsnotify.Watcher

	pathToArtifact map[string]string

	mu      sync.Mutex
	pending map[string]time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// New builds a Watcher over every artifact in state with no producing task.
// It does not start watching until Start is called.
func New(workdir string, state *model.WorkflowState, onInval OnInvalidate) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		workdir:        workdir,
		state:          state,
		onInval:        onInval,
		debounce:       300 * time.Millisecond,
		fsw:            fsw,
		pathToArtifact: make(map[string]string),
		pending:        make(map[string]time.Time),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
	return w, nil
}

// Start adds every external artifact's containing directory to the watcher
// and begins processing events in the background. Call Stop to shut down.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for id, a := range w.state.Artifacts {
		if w.state.ProducerOf(id) != "" {
			continue
		}
		abs := a.Path
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(w.workdir, a.Path)
		}
		w.pathToArtifact[abs] = id
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %q: %w", dir, err)
		}
	}

	go w.processEvents()
	go w.processDebounced()
	return nil
}

func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.fsw.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, tracked := w.pathToArtifact[ev.Name]; !tracked {
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = time.Now()
			w.mu.Unlock()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) processDebounced() {
	defer close(w.doneCh)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.flushStable()
		}
	}
}

func (w *Watcher) flushStable() {
	now := time.Now()
	var ready []string
	w.mu.Lock()
	for path, ts := range w.pending {
		if now.Sub(ts) < w.debounce {
			continue
		}
		delete(w.pending, path)
		ready = append(ready, path)
	}
	w.mu.Unlock()

	for _, path := range ready {
		artifactID := w.pathToArtifact[path]
		artifactIDs, taskIDs := invalidate.Invalidate(w.state, artifactID)
		if w.onInval != nil && (len(artifactIDs) > 0 || len(taskIDs) > 0) {
			w.onInval(artifactIDs, taskIDs)
		}
	}
}
