package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/logging"
)

// CopyFileTool duplicates a file inside the workspace, preserving its
// mode. An existing destination is never overwritten.
type CopyFileTool struct {
	guard *guard.Guard
	log   *logging.Logger
}

func NewCopyFileTool(g *guard.Guard, log *logging.Logger) *CopyFileTool {
	return &CopyFileTool{guard: g, log: log}
}

func (t *CopyFileTool) Name() string {
	return "copy_file"
}

func (t *CopyFileTool) Description() string {
	return "Copy a file inside the workspace, keeping its permissions. Fails if the destination already exists. Parent directories of the destination are created as needed."
}

func (t *CopyFileTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Path to copy from",
			},
			"destination": map[string]any{
				"type":        "string",
				"description": "Path to copy to",
			},
		},
		"required": []string{"source", "destination"},
	}
}

func (t *CopyFileTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Source == "" || params.Destination == "" {
		return nil, SemanticError("source and destination are required")
	}

	src, err := t.guard.Validate(params.Source)
	if err != nil {
		return nil, WrapAsSemantic(err)
	}
	dst, err := t.guard.Validate(params.Destination)
	if err != nil {
		return nil, WrapAsSemantic(err)
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, RuntimeErrorf("source not found: %s", params.Source)
		}
		return nil, WrapAsRuntime(err)
	}
	if info.IsDir() {
		return nil, RuntimeErrorf("%s is a directory, copy files individually", params.Source)
	}
	if _, err := os.Stat(dst); err == nil {
		return nil, RuntimeErrorf("destination already exists: %s", params.Destination)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, WrapAsRuntime(err)
	}
	if err := copyFileContents(src, dst); err != nil {
		return nil, WrapAsRuntime(err)
	}

	t.log.Info("file copied",
		zap.String("from", src),
		zap.String("to", dst),
	)

	return map[string]any{
		"source":      params.Source,
		"destination": params.Destination,
		"bytes":       info.Size(),
	}, nil
}
