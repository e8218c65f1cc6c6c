// Package ignore implements the subset of gitignore matching the file
// tools need: traversal skips ignored paths unless asked otherwise.
package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one parsed ignore pattern.
type rule struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// Matcher answers whether a workspace-relative path is ignored.
// The zero value ignores nothing except .git.
type Matcher struct {
	rules []rule
}

// Load parses the .gitignore at the workspace root. A missing file is
// not an error; the returned Matcher then only ignores .git.
func Load(root string) (*Matcher, error) {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Matcher{}, nil
		}
		return nil, err
	}
	defer f.Close()

	m := &Matcher{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m.addLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse builds a Matcher from raw gitignore content. Used by tests and
// by callers that carry rules outside a .gitignore file.
func Parse(content string) *Matcher {
	m := &Matcher{}
	for _, line := range strings.Split(content, "\n") {
		m.addLine(line)
	}
	return m
}

func (m *Matcher) addLine(line string) {
	line = strings.TrimRight(line, " \t")
	line = strings.TrimLeft(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	r := rule{}
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "\\#") || strings.HasPrefix(line, "\\!") {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return
	}
	r.pattern = line
	m.rules = append(m.rules, r)
}

// Ignored reports whether the given workspace-relative path is excluded.
// rel uses the platform separator or forward slashes; isDir must be true
// for directories so dir-only rules apply. .git is always ignored.
func (m *Matcher) Ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}

	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			// A dir-only rule still covers files beneath the directory.
			if !m.underDir(r, rel) {
				continue
			}
			ignored = !r.negate
			continue
		}
		if r.matches(rel) {
			ignored = !r.negate
		}
	}
	return ignored
}

// underDir reports whether some ancestor directory of rel matches a
// dir-only rule.
func (m *Matcher) underDir(r rule, rel string) bool {
	dir := path.Dir(rel)
	for dir != "." && dir != "/" {
		if r.matches(dir) {
			return true
		}
		dir = path.Dir(dir)
	}
	return false
}

func (r rule) matches(rel string) bool {
	if r.anchored || strings.Contains(r.pattern, "/") {
		ok, err := doublestar.Match(r.pattern, rel)
		return err == nil && ok
	}
	// Unanchored patterns match the base name at any depth.
	if ok, err := doublestar.Match(r.pattern, path.Base(rel)); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match("**/"+r.pattern, rel)
	return err == nil && ok
}
