// Package selfcheck runs startup diagnostics for the -selfcheck flag:
// each check prints a PASS/FAIL line so a misconfigured install is
// obvious before a client ever connects.
package selfcheck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/kvit-s/filesmith/internal/config"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/ignore"
	"github.com/kvit-s/filesmith/internal/workspace"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	infoColor = color.New(color.FgWhite, color.Faint)
)

// Result is one diagnostic outcome.
type Result struct {
	Name   string
	OK     bool
	Detail string
}

// Run executes all diagnostics against cfg and prints them to w.
// Returns false if any check failed.
func Run(cfg *config.Config, w io.Writer) bool {
	results := []Result{
		checkWorkspace(cfg),
		checkWritable(cfg),
		checkLock(cfg),
		checkGuard(cfg),
		checkIgnore(cfg),
		checkLog(cfg),
	}

	ok := true
	for _, r := range results {
		if r.OK {
			passColor.Fprintf(w, "PASS")
		} else {
			failColor.Fprintf(w, "FAIL")
			ok = false
		}
		fmt.Fprintf(w, "  %s", r.Name)
		if r.Detail != "" {
			infoColor.Fprintf(w, "  (%s)", r.Detail)
		}
		fmt.Fprintln(w)
	}
	return ok
}

func checkWorkspace(cfg *config.Config) Result {
	r := Result{Name: "workspace root exists"}
	info, err := os.Stat(cfg.Workspace.Root)
	switch {
	case err != nil:
		r.Detail = err.Error()
	case !info.IsDir():
		r.Detail = fmt.Sprintf("%s is not a directory", cfg.Workspace.Root)
	default:
		r.OK = true
		r.Detail = cfg.Workspace.Root
	}
	return r
}

func checkWritable(cfg *config.Config) Result {
	r := Result{Name: "workspace is writable"}
	probe := filepath.Join(cfg.Workspace.Root, ".filesmith-selfcheck")
	f, err := os.Create(probe)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	f.Close()
	os.Remove(probe)
	r.OK = true
	return r
}

func checkLock(cfg *config.Config) Result {
	r := Result{Name: "workspace lock acquirable"}
	lock, err := workspace.AcquireLock(cfg.LockPath())
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	lock.Release()
	r.OK = true
	return r
}

func checkGuard(cfg *config.Config) Result {
	r := Result{Name: "path guard rejects sensitive files"}
	g, err := guard.New(cfg.Workspace.Root)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	if _, err := g.Validate(".env"); !guard.IsDangerous(err) {
		r.Detail = ".env was not rejected"
		return r
	}
	if _, err := g.Validate("../escape"); !guard.IsOutOfBounds(err) {
		r.Detail = "parent traversal was not rejected"
		return r
	}
	r.OK = true
	return r
}

func checkIgnore(cfg *config.Config) Result {
	r := Result{Name: ".gitignore parses"}
	gitignore := filepath.Join(cfg.Workspace.Root, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		r.OK = true
		r.Detail = "no .gitignore, using defaults"
		return r
	}
	if _, err := ignore.Load(cfg.Workspace.Root); err != nil {
		r.Detail = err.Error()
		return r
	}
	r.OK = true
	return r
}

func checkLog(cfg *config.Config) Result {
	r := Result{Name: "log file appendable"}
	if cfg.Log.Path == "" {
		r.OK = true
		r.Detail = "logging disabled"
		return r
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	f.Close()
	r.OK = true
	r.Detail = cfg.Log.Path
	return r
}
