package session

import "github.com/pkg/errors"

// ErrKind is the machine-readable discriminant every session error carries
// (§7). The human-readable detail rides along in the wrapped error message
// via github.com/pkg/errors, which also captures a stack trace at the point
// of origin for the orchestrator's error logs.
type ErrKind string

const (
	KindPageUnavailable       ErrKind = "PageUnavailable"
	KindExtractionTimeout     ErrKind = "ExtractionTimeout"
	KindDiffFailure           ErrKind = "DiffFailure"
	KindRefOverflow           ErrKind = "RefOverflow"
	KindConcurrentObservation ErrKind = "ConcurrentObservation"
	KindConfigurationError    ErrKind = "ConfigurationError"
)

// Error is the typed error every failing Observe call returns (§7 "all
// errors carry a machine-readable kind and a human-readable detail").
type Error struct {
	Kind   ErrKind
	detail error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.detail.Error()
}

// Unwrap lets callers use errors.Is/As against the wrapped detail.
func (e *Error) Unwrap() error {
	return e.detail
}

func wrapErr(kind ErrKind, cause error) *Error {
	return &Error{Kind: kind, detail: errors.WithStack(cause)}
}

func newErr(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, detail: errors.New(msg)}
}

// errorsFromPanic converts a recovered panic value (from the matcher/differ)
// into a plain error, preserving whatever detail it carried.
func errorsFromPanic(r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("diff: recovered panic: %v", r)
}
