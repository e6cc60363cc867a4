package habitlist

import (
	"context"
	"errors"
	"fmt"
	"net"

	"planner-cli/internal/model"
)

// Op names the store operation that failed.
type Op string

const (
	OpLoad    Op = "load"
	OpToggle  Op = "toggle"
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpRename  Op = "rename"
	OpReorder Op = "reorder"
)

// Kind is a coarse classification of a backend failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnavailable
	KindInvalid
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is the single error state the store exposes. Views show Message();
// Kind and Err are there for logs and tests.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s habits: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the user-facing text for the failed operation.
func (e *Error) Message() string {
	switch e.Op {
	case OpLoad:
		return "Failed to load habits"
	case OpToggle:
		return "Failed to update habit"
	case OpAdd:
		return "Failed to add habit"
	case OpRemove:
		return "Failed to remove habit"
	case OpRename:
		return "Failed to edit habit"
	case OpReorder:
		return "Failed to reorder habits"
	default:
		return "Something went wrong"
	}
}

func newError(op Op, err error) *Error {
	var e *Error
	if errors.As(err, &e) && e.Op == op {
		return e
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, model.ErrHabitNotFound):
		return KindNotFound
	case errors.Is(err, model.ErrHabitExists):
		return KindConflict
	case errors.Is(err, model.ErrHabitNameEmpty), errors.Is(err, model.ErrHabitNameInvalid),
		errors.Is(err, model.ErrInvalidRequest):
		return KindInvalid
	case errors.Is(err, model.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindUnavailable
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return KindUnavailable
	}
	return KindUnknown
}
