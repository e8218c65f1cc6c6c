package readtrack

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkAndIsRead(t *testing.T) {
	tr := NewTracker()
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("hello\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if tr.IsRead(path) {
		t.Error("file should not be marked before MarkRead")
	}

	tr.MarkRead(path)
	if !tr.IsRead(path) {
		t.Error("file should be marked after MarkRead")
	}

	// Idempotent.
	tr.MarkRead(path)
	if !tr.IsRead(path) {
		t.Error("re-marking should keep the mark")
	}
}

func TestRelativeAndAbsoluteCollide(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(origWd)

	tr := NewTracker()
	tr.MarkRead("file.txt")
	if !tr.IsRead(path) {
		t.Error("absolute spelling should hit the mark made with a relative path")
	}
	if !tr.IsRead("./file.txt") {
		t.Error("dotted spelling should hit the same mark")
	}
}

func TestClearAndReset(t *testing.T) {
	tr := NewTracker()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	tr.MarkRead(a)
	tr.MarkRead(b)

	tr.Clear(a)
	if tr.IsRead(a) {
		t.Error("Clear should drop the mark")
	}
	if !tr.IsRead(b) {
		t.Error("Clear should only touch the given path")
	}

	tr.Reset()
	if tr.IsRead(b) {
		t.Error("Reset should drop every mark")
	}
}

type recordingObserver struct {
	marked  []string
	cleared []string
}

func (r *recordingObserver) Marked(path string)  { r.marked = append(r.marked, path) }
func (r *recordingObserver) Cleared(path string) { r.cleared = append(r.cleared, path) }

func TestObserverNotifications(t *testing.T) {
	tr := NewTracker()
	obs := &recordingObserver{}
	tr.SetObserver(obs)

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	tr.MarkRead(path)
	if len(obs.marked) != 1 || obs.marked[0] != path {
		t.Errorf("marked = %v, want [%s]", obs.marked, path)
	}

	tr.Clear(path)
	if len(obs.cleared) != 1 || obs.cleared[0] != path {
		t.Errorf("cleared = %v, want [%s]", obs.cleared, path)
	}

	// Clearing an unmarked path must not notify.
	tr.Clear(path)
	if len(obs.cleared) != 1 {
		t.Errorf("cleared = %v, want a single entry", obs.cleared)
	}
}
