// Package match locates search strings inside file content and performs
// the tiered in-place replacements the edit tools are built on.
//
// All functions are pure: they take a content snapshot and return
// results valid only against that snapshot. Callers normalize line
// endings once (see Normalize) before matching so byte offsets line up.
package match

import "strings"

// ContextLine is one line of surrounding context attached to a match.
type ContextLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Match is one located occurrence of a search string.
// StartPos/EndPos are byte offsets into the exact content string the
// match was computed from; any edit before the match invalidates them.
type Match struct {
	Index    int           `json:"index"`
	Line     int           `json:"line"`
	StartPos int           `json:"start_pos"`
	EndPos   int           `json:"end_pos"`
	Text     string        `json:"text"`
	Before   []ContextLine `json:"before,omitempty"`
	After    []ContextLine `json:"after,omitempty"`
}

// contextRadius is how many lines of context each match carries on
// each side, capped at file boundaries.
const contextRadius = 2

// Normalize collapses \r\n and bare \r line endings to \n.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// FindMatches returns every non-overlapping occurrence of search in
// content, in document order, with line numbers, byte offsets and up to
// two lines of context per side. Context is de-duplicated across
// adjacent matches so no line appears twice in the merged output.
// maxCount caps the number of matching lines recorded (0 = unlimited);
// multiple occurrences on one line count that line once.
func FindMatches(content, search string, maxCount int) []Match {
	if search == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	lineStart := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		lineStart[i] = offset
		offset += len(line) + 1
	}

	var matches []Match
	emitted := make(map[int]bool) // 1-based line numbers already shown
	matchingLines := 0

	for i, line := range lines {
		col := strings.Index(line, search)
		if col < 0 {
			continue
		}
		if maxCount > 0 && matchingLines >= maxCount {
			break
		}
		matchingLines++

		for col >= 0 {
			start := lineStart[i] + col
			m := Match{
				Index:    len(matches),
				Line:     i + 1,
				StartPos: start,
				EndPos:   start + len(search),
				Text:     search,
			}

			for j := i - contextRadius; j < i; j++ {
				if j < 0 || emitted[j+1] {
					continue
				}
				m.Before = append(m.Before, ContextLine{Line: j + 1, Text: lines[j]})
				emitted[j+1] = true
			}
			emitted[i+1] = true
			for j := i + 1; j <= i+contextRadius && j < len(lines); j++ {
				// Lines that match themselves are emitted as matches,
				// not as neighboring context.
				if emitted[j+1] || strings.Contains(lines[j], search) {
					continue
				}
				m.After = append(m.After, ContextLine{Line: j + 1, Text: lines[j]})
				emitted[j+1] = true
			}

			matches = append(matches, m)

			next := strings.Index(line[col+len(search):], search)
			if next < 0 {
				break
			}
			col += len(search) + next
		}
	}
	return matches
}

// Count returns the number of non-overlapping exact occurrences of
// search in content.
func Count(content, search string) int {
	if search == "" {
		return 0
	}
	count := 0
	pos := 0
	for {
		idx := strings.Index(content[pos:], search)
		if idx < 0 {
			break
		}
		count++
		pos += idx + len(search)
	}
	return count
}

// LineOf returns the 1-based line number for a byte offset in content.
func LineOf(content string, byteOffset int) int {
	line := 1
	for i := 0; i < byteOffset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
