package match

import (
	"fmt"
	"strings"
)

// Tier identifies which replace strategy produced an outcome.
type Tier int

const (
	// TierLineDelete - the search string was an entire line and the
	// replacement was empty, so the whole line was removed.
	TierLineDelete Tier = iota + 1
	// TierExact - verbatim substring replacement.
	TierExact
	// TierBlock - whitespace-tolerant multi-line block replacement.
	TierBlock
)

func (t Tier) String() string {
	switch t {
	case TierLineDelete:
		return "line-delete"
	case TierExact:
		return "exact"
	case TierBlock:
		return "block"
	}
	return "unknown"
}

// Outcome describes a successful tiered replacement.
type Outcome struct {
	Content  string
	Tier     Tier
	Line     int // 1-based line where the change starts
	Replaced int
}

// ReplaceTiered applies the three-tier replace strategy:
//
//  1. full-line delete: old equals an entire line and new is empty,
//     so the line is removed rather than left blank
//  2. exact substring: first verbatim occurrence replaced
//  3. whitespace-tolerant block: a contiguous run of lines whose
//     trimmed content equals the trimmed search block, re-indented
//     to the original block on substitution
//
// When no tier applies the error is a *NoMatchError carrying up to
// three similar-token suggestions.
func ReplaceTiered(content, old, new string) (*Outcome, error) {
	if old == "" {
		return nil, fmt.Errorf("search text must not be empty")
	}

	if new == "" {
		if out, ok := deleteFullLine(content, old); ok {
			return out, nil
		}
	}

	if idx := strings.Index(content, old); idx >= 0 {
		return &Outcome{
			Content:  content[:idx] + new + content[idx+len(old):],
			Tier:     TierExact,
			Line:     LineOf(content, idx),
			Replaced: 1,
		}, nil
	}

	if out, ok := replaceBlock(content, old, new); ok {
		return out, nil
	}

	return nil, &NoMatchError{Search: old, Suggestions: Suggest(content, old, maxSuggestions)}
}

// ReplaceAllExact replaces every non-overlapping exact occurrence of
// old with new and returns the count.
func ReplaceAllExact(content, old, new string) (string, int) {
	if old == "" {
		return content, 0
	}
	n := Count(content, old)
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, old, new), n
}

// deleteFullLine removes the first line whose entire content equals old.
func deleteFullLine(content, old string) (*Outcome, bool) {
	if strings.Contains(old, "\n") {
		return nil, false
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line != old {
			continue
		}
		out := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return &Outcome{
			Content:  strings.Join(out, "\n"),
			Tier:     TierLineDelete,
			Line:     i + 1,
			Replaced: 1,
		}, true
	}
	return nil, false
}

// replaceBlock matches a run of lines by trimmed content and substitutes
// the replacement block re-indented against the original.
func replaceBlock(content, old, new string) (*Outcome, bool) {
	oldLines := strings.Split(old, "\n")
	// A trailing newline in the search block is not a line to match.
	if len(oldLines) > 1 && oldLines[len(oldLines)-1] == "" {
		oldLines = oldLines[:len(oldLines)-1]
	}

	trimmed := make([]string, len(oldLines))
	for i, l := range oldLines {
		trimmed[i] = strings.TrimSpace(l)
	}

	contentLines := strings.Split(content, "\n")
	for i := 0; i+len(oldLines) <= len(contentLines); i++ {
		found := true
		for j := range oldLines {
			if strings.TrimSpace(contentLines[i+j]) != trimmed[j] {
				found = false
				break
			}
		}
		if !found {
			continue
		}

		var replacement []string
		if new != "" {
			replacement = reindent(contentLines[i:i+len(oldLines)], oldLines, strings.Split(new, "\n"))
		}
		out := make([]string, 0, len(contentLines)-len(oldLines)+len(replacement))
		out = append(out, contentLines[:i]...)
		out = append(out, replacement...)
		out = append(out, contentLines[i+len(oldLines):]...)
		return &Outcome{
			Content:  strings.Join(out, "\n"),
			Tier:     TierBlock,
			Line:     i + 1,
			Replaced: 1,
		}, true
	}
	return nil, false
}

// reindent maps a replacement block onto the indentation of the original
// block it replaces. The first line inherits the original block's leading
// indentation. Later lines keep the relative indentation delta between
// the search and replacement blocks where both carry leading whitespace,
// and otherwise fall back to the original line's indentation.
func reindent(origBlock, searchBlock, replLines []string) []string {
	base := leadingWhitespace(origBlock[0])
	out := make([]string, len(replLines))
	for k, rl := range replLines {
		if strings.TrimSpace(rl) == "" {
			out[k] = ""
			continue
		}
		body := strings.TrimLeft(rl, " \t")
		if k == 0 {
			out[k] = base + body
			continue
		}

		origIndent := base
		if k < len(origBlock) {
			origIndent = leadingWhitespace(origBlock[k])
		}
		searchIndent := ""
		if k < len(searchBlock) {
			searchIndent = leadingWhitespace(searchBlock[k])
		}
		replIndent := leadingWhitespace(rl)

		if searchIndent != "" && replIndent != "" {
			delta := len(replIndent) - len(searchIndent)
			switch {
			case delta > 0:
				origIndent += strings.Repeat(" ", delta)
			case delta < 0 && len(origIndent)+delta >= 0:
				origIndent = origIndent[:len(origIndent)+delta]
			}
		}
		out[k] = origIndent + body
	}
	return out
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
