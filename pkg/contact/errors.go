package contact

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNodeNotFound     = errors.New("node not found")
	ErrSealed           = errors.New("topology is sealed")
)

// GraphError provides structured error information for contact graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "New", "AddEdge")
	Node    NodeID // Offending node, -1 if not applicable
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Node >= 0 {
		if e.Context != "" {
			return fmt.Sprintf("%s node %d (%s): %v", e.Op, e.Node, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s node %d: %v", e.Op, e.Node, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// InvalidParameterError reports a construction-time parameter outside its domain.
func InvalidParameterError(op, format string, args ...any) error {
	return &GraphError{
		Op:      op,
		Node:    -1,
		Context: fmt.Sprintf(format, args...),
		Cause:   ErrInvalidParameter,
	}
}

func nodeNotFoundError(op string, id NodeID, n int) error {
	return &GraphError{
		Op:      op,
		Node:    id,
		Context: fmt.Sprintf("population %d", n),
		Cause:   ErrNodeNotFound,
	}
}

// IsInvalidParameter returns true if the error was caused by an invalid parameter.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}
