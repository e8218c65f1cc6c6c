package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/match"
	"github.com/kvit-s/filesmith/internal/readtrack"
)

// ReadFileTool reads file contents with optional offset/limit windowing
// and marks the file as read for the edit gate.
type ReadFileTool struct {
	guard    *guard.Guard
	tracker  *readtrack.Tracker
	maxBytes int64
}

func NewReadFileTool(g *guard.Guard, tracker *readtrack.Tracker, maxBytes int64) *ReadFileTool {
	return &ReadFileTool{guard: g, tracker: tracker, maxBytes: maxBytes}
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Read a file from the workspace with line numbers. Use offset and limit to read a window of a large file. Reading a file is required before editing it."
}

func (t *ReadFileTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to workspace or absolute)",
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Optional: 1-based line to start reading from",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Optional: maximum number of lines to return",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path   string `json:"path"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Path == "" {
		return nil, SemanticError("path is required")
	}

	abs, err := t.guard.Validate(params.Path)
	if err != nil {
		return nil, WrapAsSemantic(err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, RuntimeErrorf("file not found: %s", params.Path)
		}
		return nil, WrapAsRuntime(err)
	}
	if info.IsDir() {
		return nil, RuntimeErrorf("%s is a directory, use find_files to list it", params.Path)
	}
	if info.Size() > t.maxBytes {
		return nil, RuntimeErrorf("file is %d bytes, over the %d byte read limit - use offset and limit to read a window", info.Size(), t.maxBytes)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, WrapAsRuntime(err)
	}
	content := match.Normalize(string(data))
	lines := strings.Split(content, "\n")

	start := 1
	if params.Offset > 0 {
		start = params.Offset
	}
	if start > len(lines) {
		return nil, RuntimeErrorf("offset %d is past the end of the file (%d lines)", start, len(lines))
	}
	end := len(lines)
	if params.Limit > 0 && start-1+params.Limit < end {
		end = start - 1 + params.Limit
	}

	var sb strings.Builder
	for i := start - 1; i < end; i++ {
		fmt.Fprintf(&sb, "%6d\t%s\n", i+1, lines[i])
	}

	t.tracker.MarkRead(abs)

	return map[string]any{
		"path":        params.Path,
		"content":     sb.String(),
		"total_lines": len(lines),
		"start_line":  start,
		"end_line":    end,
	}, nil
}
