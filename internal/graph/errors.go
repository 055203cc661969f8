package graph

import (
	"errors"
	"strings"
)

// ErrCycleDetected is the kind shared by all dependency cycle failures.
var ErrCycleDetected = errors.New("dependency cycle detected")

// CycleError reports a dependency cycle. Path runs from a task through its
// dependencies back to the same task, so the first and last entries match.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil || len(e.Path) == 0 {
		return ErrCycleDetected.Error()
	}
	return ErrCycleDetected.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
