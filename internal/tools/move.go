package tools

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/readtrack"
)

// MoveFileTool renames a file or directory inside the workspace.
// An existing destination is never overwritten.
type MoveFileTool struct {
	guard   *guard.Guard
	tracker *readtrack.Tracker
	log     *logging.Logger
}

func NewMoveFileTool(g *guard.Guard, tracker *readtrack.Tracker, log *logging.Logger) *MoveFileTool {
	return &MoveFileTool{guard: g, tracker: tracker, log: log}
}

func (t *MoveFileTool) Name() string {
	return "move_file"
}

func (t *MoveFileTool) Description() string {
	return "Move or rename a file or directory inside the workspace. Fails if the destination already exists. Parent directories of the destination are created as needed."
}

func (t *MoveFileTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Path to move from",
			},
			"destination": map[string]any{
				"type":        "string",
				"description": "Path to move to",
			},
		},
		"required": []string{"source", "destination"},
	}
}

func (t *MoveFileTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
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

	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, RuntimeErrorf("source not found: %s", params.Source)
		}
		return nil, WrapAsRuntime(err)
	}
	if _, err := os.Stat(dst); err == nil {
		return nil, RuntimeErrorf("destination already exists: %s", params.Destination)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, WrapAsRuntime(err)
	}
	if err := os.Rename(src, dst); err != nil {
		// EXDEV when source and destination sit on different mounts.
		if srcInfo.IsDir() {
			return nil, WrapAsRuntime(err)
		}
		if copyErr := copyFileContents(src, dst); copyErr != nil {
			return nil, WrapAsRuntime(copyErr)
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return nil, WrapAsRuntime(rmErr)
		}
	}

	// A mark earned by reading the old path carries to the new one.
	if t.tracker.IsRead(src) {
		t.tracker.MarkRead(dst)
	}
	t.tracker.Clear(src)

	t.log.Info("file moved",
		zap.String("from", src),
		zap.String("to", dst),
	)

	return map[string]any{
		"source":      params.Source,
		"destination": params.Destination,
		"is_dir":      srcInfo.IsDir(),
	}, nil
}

// copyFileContents duplicates a regular file including its mode.
func copyFileContents(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
