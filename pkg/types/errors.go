package types

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure. Every error crossing a public boundary
// carries exactly one kind; callers branch on it, never on message text.
type Kind string

const (
	// KindNotFound: a lookup or single-mode query matched zero rows.
	KindNotFound Kind = "not-found"
	// KindConstraint: a unique-index or primary-key collision on insert.
	KindConstraint Kind = "constraint-violation"
	// KindUnknownOperation: an unrecognized table, view, or procedure name.
	KindUnknownOperation Kind = "unknown-operation"
	// KindStorage: the underlying engine rejected the operation. Always
	// wraps the driver error; never propagated as a panic.
	KindStorage Kind = "storage-fault"
)

// Error is the single error type returned by store operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, set for storage faults
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Constraint builds a constraint-violation error.
func Constraint(format string, args ...any) *Error {
	return &Error{Kind: KindConstraint, Message: fmt.Sprintf(format, args...)}
}

// UnknownOperation builds an unknown-operation error.
func UnknownOperation(format string, args ...any) *Error {
	return &Error{Kind: KindUnknownOperation, Message: fmt.Sprintf(format, args...)}
}

// StorageFault wraps a driver error. The cause stays reachable through
// errors.Unwrap for logging, but callers are expected to branch on Kind.
func StorageFault(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the kind from err, or the empty string if err is not a
// store error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is a store error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
