package nlquery

import (
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// Stage names the pipeline step a failure came from.
type Stage string

const (
	StageSynthesis  Stage = "synthesis"
	StageExecution  Stage = "execution"
	StageFormatting Stage = "formatting"
)

var (
	ErrSynthesisFailure  = errors.New("synthesis failure")
	ErrExecutionFailure  = errors.New("execution failure")
	ErrFormattingFailure = errors.New("formatting failure")
)

func (s Stage) Sentinel() error {
	switch s {
	case StageSynthesis:
		return ErrSynthesisFailure
	case StageExecution:
		return ErrExecutionFailure
	case StageFormatting:
		return ErrFormattingFailure
	default:
		return nil
	}
}

// Failure is the single error type the pipeline surfaces. errors.Is against
// the stage sentinel selects the stage, and the underlying cause stays
// reachable through Unwrap.
type Failure struct {
	Stage Stage
	Err   error
}

// NewFailure marks err with the stage sentinel so the stage survives further
// wrapping by callers using either errors.Is or crerr.Is.
func NewFailure(stage Stage, err error) *Failure {
	if err == nil {
		err = fmt.Errorf("%s failed", stage)
	}
	if sentinel := stage.Sentinel(); sentinel != nil {
		err = crerr.Mark(err, sentinel)
	}
	return &Failure{Stage: stage, Err: err}
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.Err == nil {
		return fmt.Sprintf("%s failure", f.Stage)
	}
	return fmt.Sprintf("%s failure: %s", f.Stage, f.Err.Error())
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

func (f *Failure) Is(target error) bool {
	if f == nil {
		return false
	}
	sentinel := f.Stage.Sentinel()
	return sentinel != nil && target == sentinel
}

// StageOf extracts the failing stage from err.
func StageOf(err error) (Stage, bool) {
	var failure *Failure
	if errors.As(err, &failure) && failure != nil {
		return failure.Stage, true
	}
	return "", false
}
