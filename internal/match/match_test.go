package match

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\nc", "a\nb\nc"},
		{"bare cr", "a\rb\rc", "a\nb\nc"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
		{"already clean", "a\nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindMatchesOffsetsVerifiable(t *testing.T) {
	content := "one\ntwo foo\nthree\nfoo bar foo\nfive"
	matches := FindMatches(content, "foo", 0)

	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	// Every record must be independently verifiable against the content.
	for _, m := range matches {
		if got := content[m.StartPos:m.EndPos]; got != "foo" {
			t.Errorf("match %d: content[%d:%d] = %q, want foo", m.Index, m.StartPos, m.EndPos, got)
		}
		lines := strings.Split(content, "\n")
		if !strings.Contains(lines[m.Line-1], "foo") {
			t.Errorf("match %d: line %d does not contain search string", m.Index, m.Line)
		}
	}

	if matches[0].Line != 2 || matches[1].Line != 4 || matches[2].Line != 4 {
		t.Errorf("lines = %d,%d,%d, want 2,4,4", matches[0].Line, matches[1].Line, matches[2].Line)
	}
	if matches[0].Index != 0 || matches[2].Index != 2 {
		t.Errorf("ordinals not sequential: %d,%d,%d", matches[0].Index, matches[1].Index, matches[2].Index)
	}
}

func TestFindMatchesContextDeduplicated(t *testing.T) {
	content := "a\nb\nx here\nx again\nc\nd"
	matches := FindMatches(content, "x", 0)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	seen := make(map[int]int)
	for _, m := range matches {
		for _, c := range m.Before {
			seen[c.Line]++
		}
		for _, c := range m.After {
			seen[c.Line]++
		}
	}
	for line, n := range seen {
		if n > 1 {
			t.Errorf("context line %d emitted %d times", line, n)
		}
	}
	// A matched line must never double as context for its neighbor.
	for _, m := range matches {
		for _, c := range append(m.Before, m.After...) {
			if c.Line == 3 || c.Line == 4 {
				t.Errorf("matched line %d leaked into context", c.Line)
			}
		}
	}
}

func TestFindMatchesMaxCountCapsMatchingLines(t *testing.T) {
	content := "x\nx\nx x\nx\nx"
	matches := FindMatches(content, "x", 2)

	lineSet := make(map[int]bool)
	for _, m := range matches {
		lineSet[m.Line] = true
	}
	if len(lineSet) != 2 {
		t.Errorf("got matches on %d lines, want cap of 2", len(lineSet))
	}
}

func TestFindMatchesMultiplePerLine(t *testing.T) {
	matches := FindMatches("ab ab ab", "ab", 0)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	wantStarts := []int{0, 3, 6}
	for i, m := range matches {
		if m.StartPos != wantStarts[i] {
			t.Errorf("match %d start = %d, want %d", i, m.StartPos, wantStarts[i])
		}
		if m.Line != 1 {
			t.Errorf("match %d line = %d, want 1", i, m.Line)
		}
	}
}

func TestFindMatchesEmptySearch(t *testing.T) {
	if got := FindMatches("anything", "", 0); got != nil {
		t.Errorf("empty search should yield no matches, got %v", got)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		content, search string
		want            int
	}{
		{"aaa", "a", 3},
		{"aaaa", "aa", 2}, // non-overlapping
		{"abc", "x", 0},
		{"abc", "", 0},
	}
	for _, tt := range tests {
		if got := Count(tt.content, tt.search); got != tt.want {
			t.Errorf("Count(%q, %q) = %d, want %d", tt.content, tt.search, got, tt.want)
		}
	}
}

func TestLineOf(t *testing.T) {
	content := "ab\ncd\nef"
	tests := []struct{ offset, want int }{
		{0, 1}, {2, 1}, {3, 2}, {5, 2}, {6, 3}, {8, 3},
	}
	for _, tt := range tests {
		if got := LineOf(content, tt.offset); got != tt.want {
			t.Errorf("LineOf(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
