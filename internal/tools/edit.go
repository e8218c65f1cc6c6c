package tools

import (
	"context"
	"encoding/json"

	"github.com/kvit-s/filesmith/internal/edit"
)

// EditFileTool applies an ordered batch of operations to one file in a
// single read/write cycle. Every operation gets a result row even when
// it fails; only path and read-gate violations abort the whole batch.
type EditFileTool struct {
	engine *edit.Engine
}

func NewEditFileTool(engine *edit.Engine) *EditFileTool {
	return &EditFileTool{engine: engine}
}

func (t *EditFileTool) Name() string {
	return "edit_file"
}

func (t *EditFileTool) Description() string {
	return "Apply multiple edits to one file in order. Each operation is either a replace (old_text/new_text, optional replace_all) or an insert (line/content). Failed operations are reported per row without stopping the rest. Set dry_run to preview the diff without writing. Requires reading the file first."
}

func (t *EditFileTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to workspace or absolute)",
			},
			"operations": map[string]any{
				"type":        "array",
				"description": "Ordered operations. Replace: {old_text, new_text, replace_all?}. Insert: {line, content} with 1-based line; line = line count + 1 appends.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"old_text":    map[string]any{"type": "string"},
						"new_text":    map[string]any{"type": "string"},
						"replace_all": map[string]any{"type": "boolean"},
						"line":        map[string]any{"type": "integer"},
						"content":     map[string]any{"type": "string"},
					},
				},
			},
			"dry_run": map[string]any{
				"type":        "boolean",
				"description": "Report the diff without writing the file",
			},
		},
		"required": []string{"path", "operations"},
	}
}

func (t *EditFileTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path       string           `json:"path"`
		Operations []edit.Operation `json:"operations"`
		DryRun     bool             `json:"dry_run"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Path == "" {
		return nil, SemanticError("path is required")
	}
	if len(params.Operations) == 0 {
		return nil, SemanticError("operations must not be empty")
	}

	res, err := t.engine.ApplyBatch(params.Path, params.Operations, params.DryRun)
	if err != nil {
		return nil, classifyEditError(err)
	}
	return res, nil
}
