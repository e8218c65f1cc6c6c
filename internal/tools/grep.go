package tools

import (
	"context"
	"encoding/json"

	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/search"
)

// SearchContentTool scans file content by regular expression.
type SearchContentTool struct {
	guard        *guard.Guard
	grepper      *search.Grepper
	contextLines int
	maxResults   int
}

func NewSearchContentTool(g *guard.Guard, grepper *search.Grepper, contextLines, maxResults int) *SearchContentTool {
	return &SearchContentTool{guard: g, grepper: grepper, contextLines: contextLines, maxResults: maxResults}
}

func (t *SearchContentTool) Name() string {
	return "search_content"
}

func (t *SearchContentTool) Description() string {
	return "Search file contents with a regular expression, grep style. Results show matching lines with context. Use file_pattern to restrict which files are scanned. Gitignored and binary files are skipped."
}

func (t *SearchContentTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{
				"type":        "string",
				"description": "Regular expression to search for (Go regexp syntax)",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Directory to search from (default: workspace root)",
			},
			"file_pattern": map[string]any{
				"type":        "string",
				"description": "Comma-separated globs restricting scanned files (e.g. \"*.go,!vendor/**\")",
			},
			"context_lines": map[string]any{
				"type":        "integer",
				"description": "Lines of context around each match (default 2)",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Cap on matching lines across all files",
			},
			"include_ignored": map[string]any{
				"type":        "boolean",
				"description": "Scan paths matched by .gitignore",
			},
		},
		"required": []string{"pattern"},
	}
}

func (t *SearchContentTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Pattern        string `json:"pattern"`
		Path           string `json:"path"`
		FilePattern    string `json:"file_pattern"`
		ContextLines   *int   `json:"context_lines"`
		MaxResults     int    `json:"max_results"`
		IncludeIgnored bool   `json:"include_ignored"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if params.Pattern == "" {
		return nil, SemanticError("pattern is required")
	}

	base := params.Path
	if base == "" {
		base = "."
	}
	abs, err := t.guard.Resolve(base)
	if err != nil {
		return nil, WrapAsSemantic(err)
	}

	contextLines := t.contextLines
	if params.ContextLines != nil {
		contextLines = *params.ContextLines
	}
	maxCount := t.maxResults
	if params.MaxResults > 0 {
		maxCount = params.MaxResults
	}

	res, err := t.grepper.Search(params.Pattern, abs, params.FilePattern, search.GrepOptions{
		ContextLines:   contextLines,
		MaxCount:       maxCount,
		IncludeIgnored: params.IncludeIgnored,
	})
	if err != nil {
		return nil, WrapAsRuntime(err)
	}

	return map[string]any{
		"pattern":       res.Pattern,
		"total_matches": res.Matches,
		"total_files":   res.TotalFiles,
		"truncated":     res.Truncated,
		"text":          res.Text,
	}, nil
}
