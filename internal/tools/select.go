package tools

import (
	"context"
	"encoding/json"

	"github.com/kvit-s/filesmith/internal/edit"
	"github.com/kvit-s/filesmith/internal/session"
)

// SelectMatchesTool resolves a pending disambiguation session by
// applying the chosen subset of matches.
type SelectMatchesTool struct {
	engine *edit.Engine
}

func NewSelectMatchesTool(engine *edit.Engine) *SelectMatchesTool {
	return &SelectMatchesTool{engine: engine}
}

func (t *SelectMatchesTool) Name() string {
	return "select_matches"
}

func (t *SelectMatchesTool) Description() string {
	return "Apply a subset of the matches enumerated by an ambiguous replace_in_file call. Pass the session token plus either specific ordinals or \"all\". Tokens expire after five minutes and are consumed on success."
}

func (t *SelectMatchesTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path of the file the session was opened for",
			},
			"session_token": map[string]any{
				"type":        "string",
				"description": "Token returned by the ambiguous replace_in_file call",
			},
			"ordinals": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Match indices to apply, as listed in the enumeration",
			},
			"all": map[string]any{
				"type":        "boolean",
				"description": "Apply every match instead of listing ordinals",
			},
		},
		"required": []string{"path", "session_token"},
	}
}

func (t *SelectMatchesTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path     string `json:"path"`
		Token    string `json:"session_token"`
		Ordinals []int  `json:"ordinals"`
		All      bool   `json:"all"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Path == "" || params.Token == "" {
		return nil, SemanticError("path and session_token are required")
	}
	if !params.All && len(params.Ordinals) == 0 {
		return nil, SemanticError("pass ordinals to apply, or set all to true")
	}

	res, err := t.engine.Resolve(params.Token, params.Path, session.Selection{
		All:      params.All,
		Ordinals: params.Ordinals,
	})
	if err != nil {
		return nil, classifyEditError(err)
	}
	return res, nil
}
