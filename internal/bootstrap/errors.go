package bootstrap

import (
	"errors"
	"fmt"
)

// Kind categorizes flow failures.
type Kind string

const (
	// KindConnection covers unreachable endpoints, rejected credentials, and
	// failed protocol handshakes.
	KindConnection Kind = "CONNECTION_ERROR"

	// KindSchema covers namespace/table creation and namespace selection.
	KindSchema Kind = "SCHEMA_ERROR"

	// KindWrite covers insert failures.
	KindWrite Kind = "WRITE_ERROR"

	// KindRead covers query failures.
	KindRead Kind = "READ_ERROR"
)

// Error is a failed flow operation.
//
// Err holds the backend's diagnostic unchanged; Kind and Op only say which
// step produced it.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op names the failed operation, e.g. "ensure namespace test_db".
	Op string

	// Err is the underlying backend error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// IsConnectionError reports whether err is a connection failure.
func IsConnectionError(err error) bool { return isKind(err, KindConnection) }

// IsSchemaError reports whether err is a namespace or table failure.
func IsSchemaError(err error) bool { return isKind(err, KindSchema) }

// IsWriteError reports whether err is an insert failure.
func IsWriteError(err error) bool { return isKind(err, KindWrite) }

// IsReadError reports whether err is a query failure.
func IsReadError(err error) bool { return isKind(err, KindRead) }

func isKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
