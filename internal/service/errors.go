package service

import (
	"errors"

	"github.com/alexanderramin/timesheet/internal/worktime"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("work time validation failed")

	// ErrInvalidInput marks requests that are malformed before any work-time
	// rule runs: missing user, unknown range, duplicate ids in a batch.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a failed validator Result. Its message is the
// validator message verbatim so callers can show it to the user as is.
type ValidationError struct {
	Result worktime.Result
}

func (e *ValidationError) Error() string {
	return e.Result.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Kind returns which rule rejected the input.
func (e *ValidationError) Kind() worktime.Kind {
	return e.Result.Kind
}

func rejected(r worktime.Result) error {
	return &ValidationError{Result: r}
}
