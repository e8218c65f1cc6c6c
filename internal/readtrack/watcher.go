package readtrack

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/logging"
)

// Watcher invalidates read marks when a marked file changes on disk
// outside the server. It watches exactly the marked paths: a watch is
// added on MarkRead and removed on Clear/Reset. Events whose stat still
// matches the snapshot recorded at mark time are ignored, so the
// engine's own write-then-mark sequence does not clear its own mark.
type Watcher struct {
	tracker *Tracker
	fs      *fsnotify.Watcher
	log     *logging.Logger
	done    chan struct{}
}

// NewWatcher starts a change watcher over the given tracker. Close must
// be called on shutdown.
func NewWatcher(tracker *Tracker, log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		tracker: tracker,
		fs:      fsw,
		log:     log,
		done:    make(chan struct{}),
	}
	tracker.SetObserver(w)
	go w.run()
	return w, nil
}

// Marked implements Observer.
func (w *Watcher) Marked(path string) {
	if err := w.fs.Add(path); err != nil {
		w.log.Debug("watch add failed", zap.String("path", path), zap.Error(err))
	}
}

// Cleared implements Observer.
func (w *Watcher) Cleared(path string) {
	_ = w.fs.Remove(path)
}

// Close detaches from the tracker and stops the event loop.
func (w *Watcher) Close() error {
	w.tracker.SetObserver(nil)
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}
			w.handle(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", err)
		}
	}
}

// handle clears the read mark unless the file still matches the stat
// snapshot taken when it was marked.
func (w *Watcher) handle(path string) {
	recorded, tracked := w.tracker.state(path)
	if !tracked {
		return
	}
	if info, err := os.Stat(path); err == nil {
		if info.ModTime().Equal(recorded.modTime) && info.Size() == recorded.size {
			return
		}
	}
	w.log.Info("external change detected, clearing read mark", zap.String("path", path))
	w.tracker.Clear(path)
}
