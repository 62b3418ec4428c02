package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPartialWrite          = errors.New("partial write")
	ErrStatementRejected     = errors.New("statement rejected")
)

// PartialWriteError reports a two-phase write whose first phase committed.
// PlayerID names the row that now exists without its additional info.
type PartialWriteError struct {
	PlayerID int64
	Err      error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: player %d stored without additional info: %v", ErrPartialWrite, e.PlayerID, e.Err)
}

func (e *PartialWriteError) Unwrap() []error {
	return []error{ErrPartialWrite, e.Err}
}
