package types

import (
	"errors"
	"fmt"
)

// ErrorClass tells callers how far a failure propagates.
type ErrorClass int

const (
	// ClassSchemaMismatch aborts the whole conversion.
	ClassSchemaMismatch ErrorClass = iota
	// ClassDecodeValidation is reported per record.
	ClassDecodeValidation
	// ClassInvariantViolation is a programming error and fails the enclosing operation.
	ClassInvariantViolation
	// ClassNotFound is returned by lookups.
	ClassNotFound
)

func (c ErrorClass) String() string {
	switch c {
	case ClassSchemaMismatch:
		return "schema_mismatch"
	case ClassDecodeValidation:
		return "decode_validation"
	case ClassInvariantViolation:
		return "invariant_violation"
	case ClassNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	ErrSchemaMismatch     = errors.New("schema mismatch")
	ErrDecodeValidation   = errors.New("decode validation failed")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotFound           = errors.New("not found")
)

var sentinels = map[ErrorClass]error{
	ClassSchemaMismatch:     ErrSchemaMismatch,
	ClassDecodeValidation:   ErrDecodeValidation,
	ClassInvariantViolation: ErrInvariantViolation,
	ClassNotFound:           ErrNotFound,
}

// ClassifiedError carries a class and the operation that raised it.
type ClassifiedError struct {
	Class ErrorClass
	Op    string
	Err   error
}

func (e *ClassifiedError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Class, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Class, e.Err)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Is matches the class sentinel so callers can write errors.Is(err, ErrSchemaMismatch).
func (e *ClassifiedError) Is(target error) bool {
	return sentinels[e.Class] == target
}

func newClassified(class ErrorClass, op, format string, args ...any) error {
	return &ClassifiedError{Class: class, Op: op, Err: fmt.Errorf(format, args...)}
}

func SchemaMismatch(op, format string, args ...any) error {
	return newClassified(ClassSchemaMismatch, op, format, args...)
}

func DecodeValidation(op, format string, args ...any) error {
	return newClassified(ClassDecodeValidation, op, format, args...)
}

func InvariantViolation(op, format string, args ...any) error {
	return newClassified(ClassInvariantViolation, op, format, args...)
}

func NotFound(op, format string, args ...any) error {
	return newClassified(ClassNotFound, op, format, args...)
}

// Classify returns the class of the first ClassifiedError in the chain.
func Classify(err error) (ErrorClass, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	return 0, false
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds a consistent API error payload.
// details can be string, map, struct, etc.
func NewErrorResponse(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
