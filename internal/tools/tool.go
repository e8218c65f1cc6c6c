// Package tools implements the file-operation tools exposed over MCP:
// reading, writing, editing, searching and moving files inside the
// workspace, each behind the path guard and the read-before-write gate.
package tools

import (
	"context"
	"encoding/json"
)

// Tool is the interface all tools implement.
type Tool interface {
	// Name returns the tool identifier (e.g. "read_file").
	Name() string

	// Description returns a human-readable description for the client.
	Description() string

	// JSONSchema returns the input schema for tools/list.
	JSONSchema() map[string]any

	// Call executes the tool with the given arguments.
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// Definition is the shape a tool takes in a tools/list response.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}
