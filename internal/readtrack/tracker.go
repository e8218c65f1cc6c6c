// Package readtrack records which files have been read in the current
// server session. Write and edit operations on existing files are gated
// on a prior read so the caller never overwrites content it has not seen.
package readtrack

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileState is the stat snapshot taken when a file was marked read.
// The watcher uses it to tell the server's own writes apart from
// external modifications.
type fileState struct {
	modTime time.Time
	size    int64
}

// Observer is notified when paths are marked or cleared. The watcher
// implements it to keep its watch list in sync with the tracker.
type Observer interface {
	Marked(path string)
	Cleared(path string)
}

// Tracker is the process-wide read registry. Keys are canonical
// absolute paths so relative and absolute spellings of the same file
// collide. The transport serializes tool calls, but the change watcher
// runs on its own goroutine, hence the mutex.
type Tracker struct {
	mu       sync.Mutex
	read     map[string]fileState
	observer Observer
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{read: make(map[string]fileState)}
}

// SetObserver attaches an observer. Pass nil to detach.
func (t *Tracker) SetObserver(o Observer) {
	t.mu.Lock()
	t.observer = o
	t.mu.Unlock()
}

// canonical normalizes a path to its absolute clean form.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Clean(abs)
}

// MarkRead records that the file at path has been read. Idempotent;
// re-marking refreshes the recorded stat snapshot.
func (t *Tracker) MarkRead(path string) {
	key := canonical(path)

	var state fileState
	if info, err := os.Stat(key); err == nil {
		state = fileState{modTime: info.ModTime(), size: info.Size()}
	}

	t.mu.Lock()
	t.read[key] = state
	o := t.observer
	t.mu.Unlock()

	if o != nil {
		o.Marked(key)
	}
}

// IsRead reports whether the file at path has been read this session.
func (t *Tracker) IsRead(path string) bool {
	key := canonical(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.read[key]
	return ok
}

// Clear drops the read mark for a single path. Called by the watcher
// when a file changes on disk underneath the server.
func (t *Tracker) Clear(path string) {
	key := canonical(path)
	t.mu.Lock()
	_, had := t.read[key]
	delete(t.read, key)
	o := t.observer
	t.mu.Unlock()

	if had && o != nil {
		o.Cleared(key)
	}
}

// Reset drops every read mark. Test and debug use.
func (t *Tracker) Reset() {
	t.mu.Lock()
	paths := make([]string, 0, len(t.read))
	for p := range t.read {
		paths = append(paths, p)
	}
	t.read = make(map[string]fileState)
	o := t.observer
	t.mu.Unlock()

	if o != nil {
		for _, p := range paths {
			o.Cleared(p)
		}
	}
}

// state returns the stat snapshot recorded at mark time.
func (t *Tracker) state(path string) (fileState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.read[canonical(path)]
	return s, ok
}
