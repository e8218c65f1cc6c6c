package tools

import (
	"context"
	"encoding/json"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/search"
)

// FindFilesTool walks the workspace for paths matching glob patterns.
type FindFilesTool struct {
	guard  *guard.Guard
	finder *search.Finder
}

func NewFindFilesTool(g *guard.Guard, finder *search.Finder) *FindFilesTool {
	return &FindFilesTool{guard: g, finder: finder}
}

func (t *FindFilesTool) Name() string {
	return "find_files"
}

func (t *FindFilesTool) Description() string {
	return "Find files and directories by glob pattern. Patterns are comma-separated; prefix with ! to exclude (e.g. \"*.go,!*_test.go\"). A pattern without a slash matches the file name at any depth. Gitignored paths are skipped unless include_ignored is set."
}

func (t *FindFilesTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{
				"type":        "string",
				"description": "Comma-separated glob patterns; ! prefix excludes. Empty matches everything.",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Directory to search from (default: workspace root)",
			},
			"max_depth": map[string]any{
				"type":        "integer",
				"description": "Limit traversal depth below the start directory",
			},
			"include_ignored": map[string]any{
				"type":        "boolean",
				"description": "Include paths matched by .gitignore",
			},
			"directories_only": map[string]any{
				"type":        "boolean",
				"description": "Return only directories",
			},
			"files_only": map[string]any{
				"type":        "boolean",
				"description": "Return only files",
			},
		},
	}
}

func (t *FindFilesTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Pattern         string `json:"pattern"`
		Path            string `json:"path"`
		MaxDepth        int    `json:"max_depth"`
		IncludeIgnored  bool   `json:"include_ignored"`
		DirectoriesOnly bool   `json:"directories_only"`
		FilesOnly       bool   `json:"files_only"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.DirectoriesOnly && params.FilesOnly {
		return nil, SemanticError("directories_only and files_only are mutually exclusive")
	}

	base := params.Path
	if base == "" {
		base = "."
	}
	abs, err := t.guard.Resolve(base)
	if err != nil {
		return nil, WrapAsSemantic(err)
	}

	entries, err := t.finder.FindFiles(abs, params.Pattern, search.FindOptions{
		MaxDepth:           params.MaxDepth,
		IncludeIgnored:     params.IncludeIgnored,
		IncludeFiles:       !params.DirectoriesOnly,
		IncludeDirectories: !params.FilesOnly,
	})
	if err != nil {
		return nil, WrapAsRuntime(err)
	}

	return map[string]any{
		"entries": entries,
		"count":   len(entries),
	}, nil
}
