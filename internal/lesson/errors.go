package lesson

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned when no source data exists for a lesson id.
var ErrSourceNotFound = errors.New("lesson source not found")

// SourceNotFoundError identifies the missing lesson.
type SourceNotFoundError struct {
	Day int
	Err error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lesson source for day %d not found: %v", e.Day, e.Err)
	}
	return fmt.Sprintf("lesson source for day %d not found", e.Day)
}

// Is matches ErrSourceNotFound.
func (e *SourceNotFoundError) Is(target error) bool { return target == ErrSourceNotFound }

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// NotFound builds a SourceNotFoundError for day.
func NotFound(day int, cause error) error {
	return &SourceNotFoundError{Day: day, Err: cause}
}
