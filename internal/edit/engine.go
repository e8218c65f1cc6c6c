// Package edit orchestrates replace and insert operations against a
// single file: one read, all changes in memory, at most one write.
package edit

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/match"
	"github.com/kvit-s/filesmith/internal/readtrack"
	"github.com/kvit-s/filesmith/internal/session"
)

// RequiresPriorReadError is returned when an edit or overwrite targets
// a file that has not been read this session.
type RequiresPriorReadError struct {
	Path string
}

func (e *RequiresPriorReadError) Error() string {
	return fmt.Sprintf("file has not been read this session: read %s before editing it", e.Path)
}

// Engine applies edits behind the path guard and the read gate.
// All state it touches (tracker, session store) is owned by the server
// composition root and injected here.
type Engine struct {
	guard    *guard.Guard
	tracker  *readtrack.Tracker
	sessions *session.Store
	log      *logging.Logger
}

// NewEngine wires an Engine to its collaborators.
func NewEngine(g *guard.Guard, tracker *readtrack.Tracker, sessions *session.Store, log *logging.Logger) *Engine {
	return &Engine{guard: g, tracker: tracker, sessions: sessions, log: log}
}

// prepare runs the shared preconditions for a mutating edit: guard the
// path, enforce the read gate, load and normalize the content.
func (e *Engine) prepare(path string) (abs, content string, err error) {
	abs, err = e.guard.Validate(path)
	if err != nil {
		return "", "", err
	}
	if !e.tracker.IsRead(abs) {
		return "", "", &RequiresPriorReadError{Path: path}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return abs, match.Normalize(string(data)), nil
}

// commit writes the new content atomically and refreshes the read mark
// so a follow-up edit in the same session passes the gate.
func (e *Engine) commit(abs, oldContent, newContent string) (string, error) {
	diff, err := UnifiedDiff(oldContent, newContent, abs)
	if err != nil {
		return "", fmt.Errorf("generate diff: %w", err)
	}
	if err := WriteAtomic(abs, newContent); err != nil {
		return "", err
	}
	e.tracker.MarkRead(abs)
	return diff, nil
}

// ReplaceResult is the outcome of a single replace call. When the
// search was ambiguous, SessionToken and Matches are set instead of a
// write having happened.
type ReplaceResult struct {
	Path     string        `json:"path"`
	Applied  int           `json:"applied"`
	Line     int           `json:"line,omitempty"`
	Strategy string        `json:"strategy,omitempty"`
	Diff     string        `json:"diff,omitempty"`
	Pending  bool          `json:"pending,omitempty"`
	Token    string        `json:"session_token,omitempty"`
	Matches  []match.Match `json:"matches,omitempty"`
}

// Replace performs one search/replace against a file.
//
// Precedence: with replaceAll set, every exact occurrence is replaced.
// Otherwise a single exact occurrence is replaced through the tiered
// strategy; two or more exact occurrences open a disambiguation session
// instead of writing; zero falls back to the remaining tiers.
func (e *Engine) Replace(path, old, new string, replaceAll bool) (*ReplaceResult, error) {
	if old == "" {
		return nil, fmt.Errorf("search text must not be empty")
	}
	if old == new {
		return nil, fmt.Errorf("search and replace text are identical - no change would be made")
	}

	abs, content, err := e.prepare(path)
	if err != nil {
		return nil, err
	}

	if replaceAll {
		if newContent, n := match.ReplaceAllExact(content, old, new); n > 0 {
			diff, err := e.commit(abs, content, newContent)
			if err != nil {
				return nil, err
			}
			return &ReplaceResult{Path: abs, Applied: n, Strategy: "replace-all", Diff: diff}, nil
		}
		// No exact occurrence; the tiered fallback below may still hit
		// a whitespace-tolerant block.
	} else if n := match.Count(content, old); n >= 2 {
		if strings.Contains(old, "\n") {
			return nil, fmt.Errorf("search text matches %d locations - add more surrounding context to make it unique", n)
		}
		matches := match.FindMatches(content, old, 0)
		token := e.sessions.Create(abs, old, new, matches)
		e.log.Info("ambiguous replace, session opened",
			zap.String("path", abs), zap.Int("matches", len(matches)))
		return &ReplaceResult{Path: abs, Pending: true, Token: token, Matches: matches}, nil
	}

	out, err := match.ReplaceTiered(content, old, new)
	if err != nil {
		return nil, err
	}
	diff, err := e.commit(abs, content, out.Content)
	if err != nil {
		return nil, err
	}
	return &ReplaceResult{
		Path:     abs,
		Applied:  out.Replaced,
		Line:     out.Line,
		Strategy: out.Tier.String(),
		Diff:     diff,
	}, nil
}

// ResolveResult is the outcome of resolving a disambiguation session.
type ResolveResult struct {
	Path    string `json:"path"`
	Applied int    `json:"applied"`
	Diff    string `json:"diff,omitempty"`
}

// Resolve applies a selection against a pending session and commits the
// write. The session is consumed on success; any validation failure
// leaves it intact for a corrected retry.
func (e *Engine) Resolve(token, path string, sel session.Selection) (*ResolveResult, error) {
	abs, err := e.guard.Validate(path)
	if err != nil {
		return nil, err
	}
	sess, err := e.sessions.Take(token, abs)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	content := match.Normalize(string(data))

	newContent, applied, err := applySelection(content, sess, sel)
	if err != nil {
		return nil, err
	}

	diff, err := e.commit(abs, content, newContent)
	if err != nil {
		return nil, err
	}
	e.sessions.Delete(token)
	return &ResolveResult{Path: abs, Applied: applied, Diff: diff}, nil
}

// applySelection substitutes the selected matches. Explicit ordinals
// are processed in descending start-offset order so earlier
// substitutions never invalidate offsets still pending in the same
// pass; remaining stored offsets are shifted by the length delta after
// each substitution anyway, keeping the whole set consistent.
func applySelection(content string, sess *session.Session, sel session.Selection) (string, int, error) {
	if sel.All {
		out, n := match.ReplaceAllExact(content, sess.Old, sess.New)
		if n == 0 {
			return "", 0, fmt.Errorf("no occurrences of the original search remain in %s", sess.Path)
		}
		return out, n, nil
	}

	if len(sel.Ordinals) == 0 {
		return "", 0, fmt.Errorf("selection must name at least one match ordinal or request all")
	}

	picked := make(map[int]bool)
	for _, ord := range sel.Ordinals {
		if ord < 0 || ord >= len(sess.Matches) {
			return "", 0, &session.InvalidSelectionError{Ordinal: ord, Count: len(sess.Matches)}
		}
		picked[ord] = true
	}

	// Work on a copy so a failed resolve never corrupts stored offsets.
	matches := make([]match.Match, len(sess.Matches))
	copy(matches, sess.Matches)

	order := make([]int, 0, len(picked))
	for ord := range picked {
		order = append(order, ord)
	}
	sort.Slice(order, func(a, b int) bool {
		return matches[order[a]].StartPos > matches[order[b]].StartPos
	})

	delta := len(sess.New) - len(sess.Old)
	applied := 0
	for _, ord := range order {
		m := matches[ord]
		if m.StartPos < 0 || m.EndPos > len(content) || content[m.StartPos:m.EndPos] != sess.Old {
			return "", 0, fmt.Errorf("file content changed since the session was created; re-run the replace")
		}
		content = content[:m.StartPos] + sess.New + content[m.EndPos:]
		applied++

		for i := range matches {
			if i != ord && matches[i].StartPos > m.StartPos {
				matches[i].StartPos += delta
				matches[i].EndPos += delta
			}
		}
	}
	return content, applied, nil
}
