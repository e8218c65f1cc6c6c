// Package workspace provides workspace-level utilities including locking.
package workspace

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
)

// Lock represents an acquired workspace lock.
type Lock struct {
	flock       *flock.Flock
	lockPath    string
	sigChan     chan os.Signal
	mu          sync.Mutex
	cleanupOnce sync.Once
}

// AcquireLock attempts to acquire an exclusive lock at lockPath.
// This prevents two server instances from editing the same workspace
// concurrently, which would defeat the read-before-write gate.
// Returns a Lock that must be released by calling Release().
func AcquireLock(lockPath string) (*Lock, error) {
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring workspace lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("workspace lock %s is held by another instance", lockPath)
	}

	// Record the PID for debugging a stuck lock.
	if f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_TRUNC, 0644); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
		f.Close()
	}

	lock := &Lock{
		flock:    fl,
		lockPath: lockPath,
		sigChan:  make(chan os.Signal, 1),
	}

	// Clean up the lock file on Ctrl+C or TERM.
	signal.Notify(lock.sigChan, syscall.SIGINT, syscall.SIGTERM)
	sigChan := lock.sigChan // capture to avoid a race with Release()
	go func() {
		sig, ok := <-sigChan
		if ok && sig != nil {
			lock.cleanup()
			os.Exit(130)
		}
	}()

	return lock, nil
}

// Release releases the workspace lock and removes the lock file.
func (l *Lock) Release() {
	l.mu.Lock()
	if l.sigChan != nil {
		signal.Stop(l.sigChan)
		close(l.sigChan)
		l.sigChan = nil
	}
	l.mu.Unlock()
	l.cleanup()
}

func (l *Lock) cleanup() {
	l.cleanupOnce.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.flock == nil {
			return
		}
		l.flock.Unlock()
		os.Remove(l.lockPath)
		l.flock = nil
	})
}
