package edit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/match"
)

// Operation is one unit of a batch: either a replace (OldText/NewText,
// optional ReplaceAll) or an insert (Line/Content). Exactly one of the
// two shapes must be present.
type Operation struct {
	OldText    *string `json:"old_text,omitempty"`
	NewText    *string `json:"new_text,omitempty"`
	ReplaceAll bool    `json:"replace_all,omitempty"`
	Line       *int    `json:"line,omitempty"`
	Content    *string `json:"content,omitempty"`
}

type opShape int

const (
	shapeInvalid opShape = iota
	shapeReplace
	shapeInsert
)

// shape classifies the operation; both-or-neither is invalid.
func (op Operation) shape() opShape {
	replace := op.OldText != nil && op.NewText != nil
	insert := op.Line != nil && op.Content != nil
	switch {
	case replace && !insert && op.Line == nil && op.Content == nil:
		return shapeReplace
	case insert && !replace && op.OldText == nil && op.NewText == nil:
		return shapeInsert
	default:
		return shapeInvalid
	}
}

// OpReport is the per-operation outcome line of a batch. A failed
// operation is recorded here, never escalated to a batch abort.
type OpReport struct {
	Index    int    `json:"index"`
	OK       bool   `json:"ok"`
	Detail   string `json:"detail"`
	Line     int    `json:"line,omitempty"`
	Replaced int    `json:"replaced,omitempty"`
}

// BatchResult aggregates a whole batch call.
type BatchResult struct {
	Path    string     `json:"path"`
	Changed int        `json:"changed"`
	Reports []OpReport `json:"operations"`
	Diff    string     `json:"diff,omitempty"`
	DryRun  bool       `json:"dry_run,omitempty"`
	Wrote   bool       `json:"wrote"`
}

// ApplyBatch runs an ordered list of operations against one file as a
// single read/write unit: exactly one read up front, at most one write
// at the end. Each operation sees the buffer as left by the previous
// one. Individual failures are local; only guard/read-gate violations
// and I/O errors abort the batch. With dryRun, the final write is
// skipped and the diff shows what would have changed.
func (e *Engine) ApplyBatch(path string, ops []Operation, dryRun bool) (*BatchResult, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("batch must contain at least one operation")
	}

	abs, content, err := e.prepare(path)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Path: abs, DryRun: dryRun}
	buffer := content

	for i, op := range ops {
		report := OpReport{Index: i}
		switch op.shape() {
		case shapeReplace:
			buffer, report = applyReplaceOp(buffer, op, report)
		case shapeInsert:
			buffer, report = applyInsertOp(buffer, op, report)
		default:
			report.Detail = "invalid operation: provide either old_text/new_text or line/content, not both or neither"
		}
		if report.OK {
			result.Changed++
		}
		result.Reports = append(result.Reports, report)
	}

	if buffer == content {
		// No-op batch: the file stays byte-for-byte untouched.
		return result, nil
	}

	diff, err := UnifiedDiff(content, buffer, abs)
	if err != nil {
		return nil, fmt.Errorf("generate diff: %w", err)
	}
	result.Diff = diff

	if dryRun {
		return result, nil
	}

	if err := WriteAtomic(abs, buffer); err != nil {
		return nil, err
	}
	e.tracker.MarkRead(abs)
	result.Wrote = true
	e.log.Info("batch applied",
		zap.String("path", abs),
		zap.Int("operations", len(ops)),
		zap.Int("changed", result.Changed))
	return result, nil
}

// applyReplaceOp runs one replace-shaped operation against the buffer.
func applyReplaceOp(buffer string, op Operation, report OpReport) (string, OpReport) {
	old, new := *op.OldText, *op.NewText
	if old == "" {
		report.Detail = "old_text must not be empty"
		return buffer, report
	}
	if old == new {
		report.Detail = "old_text and new_text are identical"
		return buffer, report
	}

	if op.ReplaceAll {
		if out, n := match.ReplaceAllExact(buffer, old, new); n > 0 {
			report.OK = true
			report.Replaced = n
			report.Detail = fmt.Sprintf("replaced %d occurrences", n)
			return out, report
		}
		// Fall through to the tiered strategy for block matches.
	} else if n := match.Count(buffer, old); n >= 2 {
		detail := fmt.Sprintf("matches %d locations: add surrounding context or set replace_all", n)
		if !strings.Contains(old, "\n") {
			lines := make([]string, 0, n)
			for _, m := range match.FindMatches(buffer, old, 0) {
				lines = append(lines, fmt.Sprintf("%d", m.Line))
			}
			detail = fmt.Sprintf("matches %d locations (lines %s): add surrounding context or set replace_all",
				n, strings.Join(lines, ", "))
		}
		report.Detail = detail
		return buffer, report
	}

	out, err := match.ReplaceTiered(buffer, old, new)
	if err != nil {
		report.Detail = err.Error()
		return buffer, report
	}
	report.OK = true
	report.Line = out.Line
	report.Replaced = out.Replaced
	switch out.Tier {
	case match.TierLineDelete:
		report.Detail = fmt.Sprintf("deleted line %d", out.Line)
	default:
		report.Detail = fmt.Sprintf("replaced at line %d (%s)", out.Line, out.Tier)
	}
	return out.Content, report
}

// applyInsertOp splices a new line into the buffer. Line may be
// lineCount+1 to append after the last line.
func applyInsertOp(buffer string, op Operation, report OpReport) (string, OpReport) {
	lines := strings.Split(buffer, "\n")
	lineNum := *op.Line
	if lineNum < 1 || lineNum > len(lines)+1 {
		report.Detail = fmt.Sprintf("line %d out of range 1..%d", lineNum, len(lines)+1)
		return buffer, report
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:lineNum-1]...)
	out = append(out, *op.Content)
	out = append(out, lines[lineNum-1:]...)

	report.OK = true
	report.Line = lineNum
	report.Detail = fmt.Sprintf("inserted at line %d", lineNum)
	return strings.Join(out, "\n"), report
}
