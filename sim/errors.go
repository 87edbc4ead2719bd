package sim

import (
	"errors"
	"fmt"
)

// Error kinds reported by the registry, queue, stack and codec.
// Callers match them with errors.Is; none of them is fatal.
var (
	ErrDuplicateKey    = errors.New("process id already registered")
	ErrNotFound        = errors.New("process not found")
	ErrEmptyQueue      = errors.New("admission queue is empty")
	ErrEmptyStack      = errors.New("memory stack is empty")
	ErrFileUnavailable = errors.New("file unavailable")
	ErrInvalidName     = errors.New("process name must be a single non-empty token")
	ErrParse           = errors.New("malformed row")
	ErrNotSaved        = errors.New("not saved: file was malformed at load")
)

// ParseError reports the first malformed row of a persisted file.
// Line is 1-based. errors.Is(err, ErrParse) holds for every ParseError.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
