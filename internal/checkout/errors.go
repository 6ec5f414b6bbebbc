package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid order request")
	ErrOutOfStock        = errors.New("out of stock")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrTerminalState     = errors.New("order is already canceled or delivered")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStorage           = errors.New("storage failure")
	ErrPersistFailed     = errors.New("failed to persist order")
	ErrCancelFailed      = errors.New("failed to cancel order")
	ErrNotifyFailed      = errors.New("failed to send invoice")
)

// Stage names a step of the checkout sequence.
type Stage string

const (
	StageValidating     Stage = "validating"
	StageReservingStock Stage = "reserving_stock"
	StagePersisting     Stage = "persisting"
	StageClearingCart   Stage = "clearing_cart"
	StageNotifying      Stage = "notifying"
	StageDone           Stage = "done"
)

// Failure reports which stage stopped a workflow. errors.Is matches both the
// category sentinel and the underlying cause.
type Failure struct {
	Stage Stage
	Kind  error
	Err   error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %v", f.Stage, f.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", f.Stage, f.Kind, f.Err)
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

func fail(stage Stage, kind, err error) error {
	return &Failure{Stage: stage, Kind: kind, Err: err}
}

func invalid(format string, args ...any) error {
	return fail(StageValidating, ErrInvalidRequest, fmt.Errorf(format, args...))
}

// StageOf returns the stage recorded in err, or "" when err is not a Failure.
func StageOf(err error) Stage {
	var f *Failure
	if errors.As(err, &f) {
		return f.Stage
	}
	return ""
}
