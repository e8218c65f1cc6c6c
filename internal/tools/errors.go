package tools

import (
	"fmt"
)

// ToolErrorType classifies tool errors
type ToolErrorType int

const (
	// ToolErrorRuntime - the tool executed but failed (file not found,
	// I/O error, pattern with no matches).
	ToolErrorRuntime ToolErrorType = iota

	// ToolErrorSemantic - the caller misused the tool (editing without
	// reading first, invalid ordinals, stale session token).
	ToolErrorSemantic
)

// ToolError is an error type that classifies errors as runtime or semantic
type ToolError struct {
	Type    ToolErrorType
	Message string
	Details map[string]any
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return e.Message
}

// RuntimeError creates a runtime error
func RuntimeError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: msg}
}

// RuntimeErrorf creates a formatted runtime error
func RuntimeErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: fmt.Sprintf(format, args...)}
}

// SemanticError creates a semantic error
func SemanticError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: msg}
}

// SemanticErrorf creates a formatted semantic error
func SemanticErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: fmt.Sprintf(format, args...)}
}

// WrapAsRuntime wraps any error as a runtime error
func WrapAsRuntime(err error) *ToolError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*ToolError); ok {
		return te
	}
	return RuntimeError(err.Error())
}

// WrapAsSemantic wraps any error as a semantic error
func WrapAsSemantic(err error) *ToolError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*ToolError); ok {
		return te
	}
	return SemanticError(err.Error())
}
