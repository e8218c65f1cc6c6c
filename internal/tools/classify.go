package tools

import (
	"errors"

	"github.com/kvit-s/filesmith/internal/edit"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/session"
)

// classifyEditError maps edit engine errors onto the runtime/semantic
// split: misuse of the tool sequence is semantic, everything else
// (missing files, no matches, I/O) is runtime.
func classifyEditError(err error) *ToolError {
	var priorRead *edit.RequiresPriorReadError
	var mismatch *session.FileMismatchError
	var selection *session.InvalidSelectionError

	switch {
	case guard.IsOutOfBounds(err), guard.IsDangerous(err):
		return WrapAsSemantic(err)
	case errors.As(err, &priorRead):
		return WrapAsSemantic(err)
	case errors.Is(err, session.ErrInvalidToken):
		return WrapAsSemantic(err)
	case errors.As(err, &mismatch), errors.As(err, &selection):
		return WrapAsSemantic(err)
	}
	return WrapAsRuntime(err)
}
