// Package search implements the traversal and regex-search collaborators:
// walk the workspace for matching paths, and scan file content by pattern.
package search

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kvit-s/filesmith/internal/ignore"
)

// Entry is one path produced by a find traversal.
type Entry struct {
	Path    string    `json:"path"`
	RelPath string    `json:"rel_path"`
	IsDir   bool      `json:"is_dir"`
	Size    int64     `json:"size,omitempty"`
	ModTime time.Time `json:"mtime,omitempty"`
}

// FindOptions tune a traversal.
type FindOptions struct {
	MaxDepth           int  // 0 = unlimited, counted from the base
	IncludeIgnored     bool // bypass the ignore filter
	IncludeFiles       bool
	IncludeDirectories bool
}

// Finder walks the workspace and filters paths by glob patterns.
type Finder struct {
	Root       string
	Ignore     *ignore.Matcher
	MaxResults int // 0 = unlimited
}

// filterSet is a parsed comma-separated pattern list; patterns prefixed
// with ! exclude.
type filterSet struct {
	include []string
	exclude []string
}

func parseFilter(filter string) (*filterSet, error) {
	set := &filterSet{}
	for _, raw := range strings.Split(filter, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		negate := strings.HasPrefix(p, "!")
		if negate {
			p = p[1:]
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
		if negate {
			set.exclude = append(set.exclude, p)
		} else {
			set.include = append(set.include, p)
		}
	}
	return set, nil
}

// matches applies include patterns (empty include list admits all) then
// exclusions, against the workspace-relative slash path.
func (f *filterSet) matches(rel string) bool {
	ok := len(f.include) == 0
	for _, p := range f.include {
		if globMatch(p, rel) {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	for _, p := range f.exclude {
		if globMatch(p, rel) {
			return false
		}
	}
	return true
}

// globMatch matches like gitignore: a pattern without a slash applies
// to the base name at any depth.
func globMatch(pattern, rel string) bool {
	if !strings.Contains(pattern, "/") {
		if ok, _ := doublestar.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
		ok, _ := doublestar.Match("**/"+pattern, rel)
		return ok
	}
	ok, _ := doublestar.Match(pattern, rel)
	return ok
}

// FindFiles walks base (workspace-relative or absolute, already guarded
// by the caller) and returns entries matching the filter expression.
// Results come back sorted by relative path.
func (f *Finder) FindFiles(base, filter string, opt FindOptions) ([]Entry, error) {
	filters, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	if !opt.IncludeFiles && !opt.IncludeDirectories {
		opt.IncludeFiles = true
		opt.IncludeDirectories = true
	}

	baseDepth := strings.Count(filepath.ToSlash(base), "/")
	var entries []Entry

	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == base {
			return nil
		}

		rel, relErr := filepath.Rel(f.Root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !opt.IncludeIgnored && f.Ignore != nil && f.Ignore.Ignored(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if opt.MaxDepth > 0 {
			depth := strings.Count(filepath.ToSlash(path), "/") - baseDepth
			if depth > opt.MaxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() && !opt.IncludeDirectories {
			return nil
		}
		if !d.IsDir() && !opt.IncludeFiles {
			return nil
		}
		if !filters.matches(rel) {
			return nil
		}

		entry := Entry{Path: path, RelPath: rel, IsDir: d.IsDir()}
		if info, infoErr := d.Info(); infoErr == nil {
			entry.Size = info.Size()
			entry.ModTime = info.ModTime()
		}
		entries = append(entries, entry)

		if f.MaxResults > 0 && len(entries) >= f.MaxResults {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(a, b int) bool {
		return entries[a].RelPath < entries[b].RelPath
	})
	return entries, nil
}
