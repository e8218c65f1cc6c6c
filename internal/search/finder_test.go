package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvit-s/filesmith/internal/ignore"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelPath
	}
	return out
}

func TestFindFilesGlobFilter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":           "package main\n",
		"util.go":           "package main\n",
		"readme.md":         "# hi\n",
		"sub/handler.go":    "package sub\n",
		"sub/deep/extra.go": "package deep\n",
	})

	f := &Finder{Root: root}
	entries, err := f.FindFiles(root, "*.go", FindOptions{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"main.go", "sub/deep/extra.go", "sub/handler.go", "util.go"}
	got := relPaths(entries)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindFilesExcludePattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":      "x",
		"main_test.go": "x",
		"util.go":      "x",
	})

	f := &Finder{Root: root}
	entries, err := f.FindFiles(root, "*.go,!*_test.go", FindOptions{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(entries)
	for _, rel := range got {
		if rel == "main_test.go" {
			t.Errorf("excluded pattern matched: %v", got)
		}
	}
	if len(got) != 2 {
		t.Errorf("got %v, want main.go and util.go", got)
	}
}

func TestFindFilesInvalidPattern(t *testing.T) {
	root := t.TempDir()
	f := &Finder{Root: root}
	if _, err := f.FindFiles(root, "[bad", FindOptions{}); err == nil {
		t.Fatal("expected error for invalid glob")
	}
}

func TestFindFilesHonorsIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":         "x",
		"build/out.go":    "x",
		"vendor/dep.go":   "x",
		".git/config":     "x",
		"src/keep.go":     "x",
	})

	m := ignore.Parse("build/\nvendor/\n")
	f := &Finder{Root: root, Ignore: m}

	entries, err := f.FindFiles(root, "", FindOptions{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		switch {
		case e.RelPath == "build/out.go", e.RelPath == "vendor/dep.go":
			t.Errorf("ignored file returned: %s", e.RelPath)
		case strings.HasPrefix(e.RelPath, ".git/"):
			t.Errorf(".git content returned: %s", e.RelPath)
		}
	}

	entries, err = f.FindFiles(root, "", FindOptions{IncludeFiles: true, IncludeIgnored: true})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range entries {
		if e.RelPath == "build/out.go" {
			found = true
		}
		if strings.HasPrefix(e.RelPath, ".git/") {
			t.Errorf(".git content returned even with include_ignored: %s", e.RelPath)
		}
	}
	if !found {
		t.Error("include_ignored did not surface build/out.go")
	}
}

func TestFindFilesMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.go":       "x",
		"a/mid.go":     "x",
		"a/b/deep.go":  "x",
	})

	f := &Finder{Root: root}
	entries, err := f.FindFiles(root, "*.go", FindOptions{IncludeFiles: true, MaxDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(entries)
	for _, rel := range got {
		if rel == "a/b/deep.go" {
			t.Errorf("depth limit not applied: %v", got)
		}
	}
	if len(got) != 2 {
		t.Errorf("got %v, want top.go and a/mid.go", got)
	}
}

func TestFindFilesMaxResults(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": "x", "b.txt": "x", "c.txt": "x", "d.txt": "x",
	})

	f := &Finder{Root: root, MaxResults: 2}
	entries, err := f.FindFiles(root, "", FindOptions{IncludeFiles: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestFindFilesDirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/file.txt": "x",
		"b/file.txt": "x",
	})

	f := &Finder{Root: root}
	entries, err := f.FindFiles(root, "", FindOptions{IncludeDirectories: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !e.IsDir {
			t.Errorf("file returned in directory-only mode: %s", e.RelPath)
		}
	}
	if len(entries) != 2 {
		t.Errorf("got %d directories, want 2", len(entries))
	}
}

func TestGlobMatchBareNameAnyDepth(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{"*.go", "main.go", true},
		{"*.go", "deep/nested/file.go", true},
		{"*.go", "readme.md", false},
		{"sub/*.go", "sub/x.go", true},
		{"sub/*.go", "other/x.go", false},
		{"**/*.md", "docs/guide.md", true},
		{"config.*", "app/config.yaml", true},
	}
	for _, tt := range tests {
		if got := globMatch(tt.pattern, tt.rel); got != tt.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", tt.pattern, tt.rel, got, tt.want)
		}
	}
}
