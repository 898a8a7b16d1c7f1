// Package bridge converts schemas, arrays and record batches between
// the arrow-go implementation of the Arrow columnar format and the
// frame engine, zero-copy, over the Arrow C Data Interface.
//
// Neither side maps the other's types directly. A type crosses by being
// exported as a C schema description and parsed by the destination's
// own format decoder, so each side applies exactly the validation it
// would apply to any foreign producer.
package bridge

import (
	"errors"
	"fmt"
)

// ErrorCode classifies conversion failures.
type ErrorCode int32

const (
	ErrUnknown ErrorCode = iota
	// ErrUnsupportedType marks a source type the destination has no
	// representation for. Small-offset string, binary and list
	// encodings land here; they are never re-encoded silently.
	ErrUnsupportedType
	// ErrSchemaConversion marks a schema or field that failed to cross.
	ErrSchemaConversion
	// ErrArrayConversion marks array data that failed import validation.
	ErrArrayConversion
)

func (c ErrorCode) String() string {
	switch c {
	case ErrUnsupportedType:
		return "unsupported type"
	case ErrSchemaConversion:
		return "schema conversion"
	case ErrArrayConversion:
		return "array conversion"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every conversion entry point.
// Release-obligation violations are not errors; double releases panic.
type Error struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge: %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the error code, ErrUnknown for foreign errors.
func CodeOf(err error) ErrorCode {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrUnknown
}

func convErr(code ErrorCode, op string, err error) error {
	return &Error{Code: code, Op: op, Err: err}
}

func convErrf(code ErrorCode, op, format string, args ...any) error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}
