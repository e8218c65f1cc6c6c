package tools

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/edit"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/match"
	"github.com/kvit-s/filesmith/internal/readtrack"
)

// WriteFileTool creates or overwrites a file. Overwriting an existing
// file requires a prior read; creation does not.
type WriteFileTool struct {
	guard   *guard.Guard
	tracker *readtrack.Tracker
	log     *logging.Logger
}

func NewWriteFileTool(g *guard.Guard, tracker *readtrack.Tracker, log *logging.Logger) *WriteFileTool {
	return &WriteFileTool{guard: g, tracker: tracker, log: log}
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Description() string {
	return "Create a new file or overwrite an existing one with the given content. Overwriting requires reading the file first. Parent directories are created as needed."
}

func (t *WriteFileTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to workspace or absolute)",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Full content to write",
			},
		},
		"required": []string{"path", "content"},
	}
}

func (t *WriteFileTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path    string `json:"path"`
		Content string `json:"content"`
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

	var oldContent string
	created := true
	if info, statErr := os.Stat(abs); statErr == nil {
		if info.IsDir() {
			return nil, RuntimeErrorf("%s is a directory", params.Path)
		}
		created = false
		if !t.tracker.IsRead(abs) {
			return nil, SemanticErrorf("file %s exists but has not been read in this session - read it before overwriting", params.Path)
		}
		data, readErr := os.ReadFile(abs)
		if readErr != nil {
			return nil, WrapAsRuntime(readErr)
		}
		oldContent = match.Normalize(string(data))
	}

	content := match.Normalize(params.Content)
	if err := edit.WriteAtomic(abs, content); err != nil {
		return nil, WrapAsRuntime(err)
	}
	t.tracker.MarkRead(abs)
	t.log.Info("file written",
		zap.String("path", abs),
		zap.Bool("created", created),
	)

	result := map[string]any{
		"path":    params.Path,
		"created": created,
		"bytes":   len(content),
		"lines":   strings.Count(content, "\n") + 1,
	}
	if !created {
		if diff, diffErr := edit.UnifiedDiff(oldContent, content, params.Path); diffErr == nil && diff != "" {
			result["diff"] = diff
		}
	}
	return result, nil
}
