package engagement

import (
	"errors"
	"fmt"

	"github.com/anonto42/engagement/backend/internal/repositories"
)

// Code categorizes engine errors.
type Code string

const (
	// CodeNotFound indicates the post or the acting user does not exist.
	// Nothing was written.
	CodeNotFound Code = "NOT_FOUND"

	// CodeConflict indicates a concurrent writer changed the reaction between
	// the lookup and the write. Nothing was written; the caller should retry
	// the toggle, which re-reads and re-derives the branch.
	CodeConflict Code = "CONFLICT"

	// CodeStoreUnavailable indicates a store failed. The engine does not
	// retry.
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// CodeCounterDrift indicates the record write committed but the counter
	// delta was not applied. The outcome returned alongside is accurate.
	CodeCounterDrift Code = "COUNTER_DRIFT"

	// CodeInvalidArgument indicates a request the engine cannot act on.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// Error is the error type returned by this package.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Op is the store operation that failed, e.g. "insert_reaction".
	Op string

	// Resource and ID name the affected record ("post", "user", "reaction").
	Resource string
	ID       string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is; they match any *Error with the same Code.
var (
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrStoreUnavailable = &Error{Code: CodeStoreUnavailable}
	ErrCounterDrift     = &Error{Code: CodeCounterDrift}
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument}
)

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Resource != "" {
		msg += fmt.Sprintf(": %s %q", e.Resource, e.ID)
	}
	if e.Op != "" {
		msg += fmt.Sprintf(" (op=%s)", e.Op)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsRetryable reports whether repeating the call may succeed: conflicts are
// retryable, everything else is terminal for the caller's request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// CodeOf returns the Code of err, or "" when err is not from this package.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// classify turns a store error into an *Error.
func classify(op, resource, id string, err error) *Error {
	code := CodeStoreUnavailable
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		code = CodeConflict
	}
	return &Error{Code: code, Op: op, Resource: resource, ID: id, Err: err}
}
