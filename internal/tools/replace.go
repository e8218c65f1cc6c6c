package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kvit-s/filesmith/internal/edit"
	"github.com/kvit-s/filesmith/internal/match"
)

// ReplaceTool performs a single search/replace through the edit engine.
// Ambiguous searches come back as an enumeration with a session token
// for select_matches instead of an error.
type ReplaceTool struct {
	engine *edit.Engine
}

func NewReplaceTool(engine *edit.Engine) *ReplaceTool {
	return &ReplaceTool{engine: engine}
}

func (t *ReplaceTool) Name() string {
	return "replace_in_file"
}

func (t *ReplaceTool) Description() string {
	return "Replace text in a file. An empty new_text deletes whole matching lines. When old_text matches more than once, the matches are listed with a session token; use select_matches to pick which to apply. Requires reading the file first."
}

func (t *ReplaceTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the file (relative to workspace or absolute)",
			},
			"old_text": map[string]any{
				"type":        "string",
				"description": "Text to search for",
			},
			"new_text": map[string]any{
				"type":        "string",
				"description": "Replacement text. Empty string deletes the matching lines.",
			},
			"replace_all": map[string]any{
				"type":        "boolean",
				"description": "Replace every occurrence instead of requiring a unique match",
			},
		},
		"required": []string{"path", "old_text", "new_text"},
	}
}

func (t *ReplaceTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path       string `json:"path"`
		OldText    string `json:"old_text"`
		NewText    string `json:"new_text"`
		ReplaceAll bool   `json:"replace_all"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Path == "" {
		return nil, SemanticError("path is required")
	}

	res, err := t.engine.Replace(params.Path, params.OldText, params.NewText, params.ReplaceAll)
	if err != nil {
		return nil, classifyEditError(err)
	}

	if res.Pending {
		return map[string]any{
			"path":          res.Path,
			"pending":       true,
			"session_token": res.Token,
			"matches":       res.Matches,
			"message":       renderMatchList(res.Matches, res.Token),
		}, nil
	}

	return res, nil
}

// renderMatchList formats the ambiguity enumeration shown to the caller.
func renderMatchList(matches []match.Match, token string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d matches. Call select_matches with session_token %q and the ordinals to apply (or \"all\").\n\n", len(matches), token)
	for _, m := range matches {
		fmt.Fprintf(&sb, "[%d] line %d:\n", m.Index, m.Line)
		for _, c := range m.Before {
			fmt.Fprintf(&sb, "  %d  %s\n", c.Line, c.Text)
		}
		fmt.Fprintf(&sb, "> %d  %s\n", m.Line, m.Text)
		for _, c := range m.After {
			fmt.Fprintf(&sb, "  %d  %s\n", c.Line, c.Text)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
