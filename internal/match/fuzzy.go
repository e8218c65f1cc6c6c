package match

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// similarityThreshold is the minimum Levenshtein similarity for a token
// to be offered as a suggestion.
const similarityThreshold = 0.6

// maxSuggestions caps how many similar tokens a NoMatchError carries.
const maxSuggestions = 3

// Suggestion names a token in the file that resembles the failed search.
type Suggestion struct {
	Token      string  `json:"token"`
	Line       int     `json:"line"`
	Similarity float64 `json:"similarity"`
}

// NoMatchError reports that no replace tier matched, with best-effort
// pointers at what the caller might have meant.
type NoMatchError struct {
	Search      string
	Suggestions []Suggestion
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("no match found for %q", truncateForError(e.Search))
	if len(e.Suggestions) == 0 {
		return msg
	}
	parts := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		parts[i] = fmt.Sprintf("%q (line %d)", s.Token, s.Line)
	}
	return msg + "; did you mean " + strings.Join(parts, ", ") + "?"
}

func truncateForError(s string) string {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx] + "..."
	}
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}

// LevenshteinDistance calculates the edit distance between two strings.
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	d := make([][]int, len(s1)+1)
	for i := range d {
		d[i] = make([]int, len(s2)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[len(s1)][len(s2)]
}

// SimilarityRatio calculates the similarity between two strings in
// [0, 1] as 1 - distance/max(len).
func SimilarityRatio(s1, s2 string) float64 {
	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}
	distance := LevenshteinDistance(s1, s2)
	maxLen := max(len(s1), len(s2))
	return 1.0 - float64(distance)/float64(maxLen)
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Suggest scans word-boundary tokens in content for ones of roughly the
// search's length with similarity above the threshold. For multi-line
// searches the first line is used as the probe. Results are sorted by
// similarity, best first, capped at limit.
func Suggest(content, search string, limit int) []Suggestion {
	probe := search
	if idx := strings.Index(probe, "\n"); idx >= 0 {
		probe = probe[:idx]
	}
	probe = strings.TrimSpace(probe)
	if probe == "" {
		return nil
	}

	// Tokens far off the probe's length cannot clear the threshold.
	slack := len(probe) / 2
	if slack < 2 {
		slack = 2
	}

	var found []Suggestion
	seen := make(map[string]bool)
	for i, line := range strings.Split(content, "\n") {
		for _, tok := range tokenPattern.FindAllString(line, -1) {
			if seen[tok] || tok == probe {
				continue
			}
			if len(tok) < len(probe)-slack || len(tok) > len(probe)+slack {
				continue
			}
			if r := SimilarityRatio(tok, probe); r >= similarityThreshold {
				found = append(found, Suggestion{Token: tok, Line: i + 1, Similarity: r})
				seen[tok] = true
			}
		}
	}

	sort.SliceStable(found, func(a, b int) bool {
		return found[a].Similarity > found[b].Similarity
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found
}

// MostSimilarLine finds the content line closest to the search string.
// Used by error paths that want to show the nearest candidate even when
// no token clears the suggestion threshold.
func MostSimilarLine(content, search string) (lineNum int, line string, ratio float64) {
	probe := search
	if idx := strings.Index(probe, "\n"); idx > 0 {
		probe = probe[:idx]
	}
	probe = strings.TrimSpace(probe)

	best := 0.0
	for i, l := range strings.Split(content, "\n") {
		r := SimilarityRatio(strings.TrimSpace(l), probe)
		if r > best {
			best = r
			lineNum = i + 1
			line = l
		}
	}
	return lineNum, line, best
}
