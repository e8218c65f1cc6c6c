package search

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// OutputBudget is the hard cap on rendered grep output. Exceeding it
// fails the call outright so the caller narrows the query instead of
// flooding the transport.
const OutputBudget = 20000

// binarySniff is how many leading bytes are checked for NUL to skip
// binary files.
const binarySniff = 8192

// ContentTooLargeError reports a result that blew the output budget.
type ContentTooLargeError struct {
	Size   int
	Budget int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("search output is %d characters, over the %d limit - narrow the pattern or the file filter", e.Size, e.Budget)
}

// MalformedPatternError wraps a regexp compile failure with a
// human-readable diagnosis of the offending construct.
type MalformedPatternError struct {
	Pattern   string
	Diagnosis string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Diagnosis)
}

// GrepOptions tune a content search.
type GrepOptions struct {
	ContextLines   int // lines of context each side, default 2
	MaxCount       int // cap on matching lines across all files, 0 = default
	IncludeIgnored bool
}

// LineMatch is one output line: a match or a context neighbor.
type LineMatch struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// FileResult groups the matches found in one file.
type FileResult struct {
	Path    string      `json:"path"`
	RelPath string      `json:"rel_path"`
	Lines   []LineMatch `json:"lines"`
	Matches int         `json:"matches"`
}

// GrepResult is a whole search: per-file groups plus the rendered text.
type GrepResult struct {
	Pattern    string       `json:"pattern"`
	Files      []FileResult `json:"files"`
	TotalFiles int          `json:"total_files"`
	Matches    int          `json:"total_matches"`
	Truncated  bool         `json:"truncated,omitempty"`
	Text       string       `json:"-"`
}

// defaultGrepMaxCount bounds matching lines when the caller gives none.
const defaultGrepMaxCount = 100

// Grepper searches file content by regular expression.
type Grepper struct {
	Finder *Finder
	Budget int // rendered output cap, 0 = OutputBudget
}

// Search compiles pattern and scans every file under base that passes
// fileGlob and the ignore filter. Files are searched concurrently; the
// merged output is deterministic in path order.
func (g *Grepper) Search(pattern, base, fileGlob string, opt GrepOptions) (*GrepResult, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &MalformedPatternError{Pattern: pattern, Diagnosis: diagnoseRegexp(pattern, err)}
	}
	if opt.ContextLines < 0 {
		opt.ContextLines = 0
	}
	if opt.MaxCount <= 0 {
		opt.MaxCount = defaultGrepMaxCount
	}

	candidates, err := g.Finder.FindFiles(base, fileGlob, FindOptions{
		IncludeFiles:   true,
		IncludeIgnored: opt.IncludeIgnored,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*FileResult, len(candidates))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range candidates {
		i, entry := i, entry
		group.Go(func() error {
			fr, grepErr := grepFile(re, entry, opt)
			if grepErr != nil {
				// Unreadable or binary files are silently skipped.
				return nil
			}
			results[i] = fr
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := &GrepResult{Pattern: pattern}
	for _, fr := range results {
		if fr == nil || len(fr.Lines) == 0 {
			continue
		}
		if out.Matches+fr.Matches > opt.MaxCount {
			out.Truncated = true
			remaining := opt.MaxCount - out.Matches
			if remaining <= 0 {
				break
			}
			fr = truncateFileResult(fr, remaining)
		}
		out.Files = append(out.Files, *fr)
		out.Matches += fr.Matches
	}
	out.TotalFiles = len(out.Files)

	budget := g.Budget
	if budget <= 0 {
		budget = OutputBudget
	}
	out.Text = renderGrep(out)
	if len(out.Text) > budget {
		return nil, &ContentTooLargeError{Size: len(out.Text), Budget: budget}
	}
	return out, nil
}

// grepFile scans one file line by line, attaching context.
func grepFile(re *regexp.Regexp, entry Entry, opt GrepOptions) (*FileResult, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, err
	}
	sniff := data
	if len(sniff) > binarySniff {
		sniff = sniff[:binarySniff]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return nil, fmt.Errorf("binary file")
	}

	lines := strings.Split(string(data), "\n")
	fr := &FileResult{Path: entry.Path, RelPath: entry.RelPath}
	included := make(map[int]bool)

	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}
		fr.Matches++
		for j := i - opt.ContextLines; j <= i+opt.ContextLines; j++ {
			if j < 0 || j >= len(lines) || included[j] {
				continue
			}
			fr.Lines = append(fr.Lines, LineMatch{
				Line:    j + 1,
				Text:    lines[j],
				IsMatch: j == i,
			})
			included[j] = true
		}
	}
	return fr, nil
}

// truncateFileResult keeps the first n matching lines and their context.
func truncateFileResult(fr *FileResult, n int) *FileResult {
	out := &FileResult{Path: fr.Path, RelPath: fr.RelPath}
	for _, lm := range fr.Lines {
		if lm.IsMatch {
			if out.Matches >= n {
				break
			}
			out.Matches++
		}
		out.Lines = append(out.Lines, lm)
	}
	return out
}

// renderGrep formats the result the way grep -n does, files separated
// by headers, context lines marked with a dash.
func renderGrep(r *GrepResult) string {
	var sb strings.Builder
	for _, fr := range r.Files {
		fmt.Fprintf(&sb, "%s:\n", fr.RelPath)
		prev := 0
		for _, lm := range fr.Lines {
			if prev > 0 && lm.Line > prev+1 {
				sb.WriteString("--\n")
			}
			marker := "-"
			if lm.IsMatch {
				marker = ":"
			}
			fmt.Fprintf(&sb, "%d%s %s\n", lm.Line, marker, lm.Text)
			prev = lm.Line
		}
		sb.WriteString("\n")
	}
	if r.Truncated {
		sb.WriteString("(result truncated - narrow the pattern to see more)\n")
	}
	return sb.String()
}

// diagnoseRegexp rewrites a regexp compile failure into a pointed hint
// naming the construct when it is recognizable.
func diagnoseRegexp(pattern string, err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "missing closing )"):
		return "unmatched opening parenthesis - escape a literal ( as \\("
	case strings.Contains(msg, "unexpected )"):
		return "unmatched closing parenthesis - escape a literal ) as \\)"
	case strings.Contains(msg, "missing closing ]"):
		return "unmatched character class bracket - escape a literal [ as \\["
	case strings.Contains(msg, "missing argument to repetition operator"):
		op := "*, + or ?"
		for _, c := range []string{"*", "+", "?"} {
			if strings.Contains(msg, "`"+c+"`") {
				op = c
				break
			}
		}
		return fmt.Sprintf("repetition operator %s has nothing to repeat - escape it to match the literal character", op)
	case strings.Contains(msg, "trailing backslash"):
		return "trailing backslash - double it (\\\\) to match a literal backslash"
	case strings.Contains(msg, "invalid repeat count"):
		return "invalid {n,m} repeat count - escape literal braces as \\{ and \\}"
	case strings.Contains(msg, "invalid escape sequence"):
		return "invalid escape sequence - check the character after the backslash"
	}
	return "could not compile the pattern; common fixes: escape special characters ( ) [ ] { } * + ? . \\ with a backslash, or simplify the expression"
}
