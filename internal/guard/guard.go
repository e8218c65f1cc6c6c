// Package guard validates that file paths stay inside the workspace and
// never touch known-sensitive files.
package guard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrorKind classifies a guard rejection.
type ErrorKind int

const (
	// OutOfBounds - resolved path is not a descendant of the workspace root
	OutOfBounds ErrorKind = iota
	// DangerousFile - path matches the sensitive-file denylist
	DangerousFile
)

// Error is a guard rejection for a specific path.
type Error struct {
	Kind ErrorKind
	Path string
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return fmt.Sprintf("path is outside the workspace: %s", e.Path)
	case DangerousFile:
		return fmt.Sprintf("access to sensitive file denied: %s", e.Path)
	}
	return fmt.Sprintf("path rejected: %s", e.Path)
}

// IsOutOfBounds reports whether err is a guard rejection for an
// out-of-workspace path.
func IsOutOfBounds(err error) bool {
	ge, ok := err.(*Error)
	return ok && ge.Kind == OutOfBounds
}

// IsDangerous reports whether err is a guard rejection for a sensitive file.
func IsDangerous(err error) bool {
	ge, ok := err.(*Error)
	return ok && ge.Kind == DangerousFile
}

// Guard checks paths against a single workspace root.
type Guard struct {
	root string
}

// New creates a Guard for the given workspace root.
// The root is resolved to an absolute path once, up front.
func New(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Guard{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute workspace root.
func (g *Guard) Root() string {
	return g.root
}

// Resolve normalizes a path and verifies it lies inside the workspace.
// Relative paths are joined to the workspace root; ~ expands to the
// user's home directory. Returns the absolute path or an OutOfBounds error.
func (g *Guard) Resolve(path string) (string, error) {
	p := path
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand home directory: %w", err)
		}
		p = filepath.Join(home, p[2:])
	}

	var abs string
	if filepath.IsAbs(p) {
		abs = p
	} else {
		abs = filepath.Join(g.root, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(g.root, abs)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &Error{Kind: OutOfBounds, Path: abs}
	}
	return abs, nil
}

// Validate resolves a path and additionally rejects sensitive files.
// Every mutating operation must pass its target (and for move/copy,
// both ends) through Validate before touching the filesystem.
func (g *Guard) Validate(path string) (string, error) {
	abs, err := g.Resolve(path)
	if err != nil {
		return "", err
	}
	if reason := dangerousReason(abs); reason != "" {
		return "", &Error{Kind: DangerousFile, Path: abs}
	}
	return abs, nil
}

// Sensitive-file denylist. Matching is by filename, never by content.
var (
	dangerousNames = map[string]bool{
		"id_rsa":      true,
		"id_dsa":      true,
		"id_ecdsa":    true,
		"id_ed25519":  true,
		"credentials": true,
		".netrc":      true,
		".npmrc":      true,
		".pgpass":     true,
		".htpasswd":   true,
		".env":        true,
		"shadow":      true,
		"passwd":      true,
	}

	dangerousSuffixes = []string{
		".pem", ".key", ".p12", ".pfx", ".crt", ".cer", ".der",
		".keystore", ".jks", ".asc", ".gpg", ".kdbx",
	}

	dangerousDirs = map[string]bool{
		".ssh":   true,
		".aws":   true,
		".kube":  true,
		".gnupg": true,
	}

	dangerousSubstrings = []string{"password", "secret", "private"}
)

// dangerousReason returns a short description of why a path is on the
// denylist, or "" if it is not.
func dangerousReason(abs string) string {
	base := filepath.Base(abs)
	lower := strings.ToLower(base)

	if dangerousNames[base] {
		return "sensitive file name: " + base
	}
	if strings.HasPrefix(base, ".env.") {
		return "environment file: " + base
	}
	for _, suffix := range dangerousSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "key or certificate file: " + base
		}
	}
	for _, sub := range dangerousSubstrings {
		if strings.Contains(lower, sub) {
			return "file name contains " + sub
		}
	}
	for _, segment := range strings.Split(filepath.ToSlash(abs), "/") {
		if dangerousDirs[segment] {
			return "inside protected directory " + segment
		}
	}
	return ""
}
