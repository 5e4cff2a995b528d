package protocols

import (
	"errors"
	"fmt"
)

// ErrorCode classifies protocol failures.
type ErrorCode int

const (
	// ErrUnknown represents an unclassified error
	ErrUnknown ErrorCode = iota

	// ErrConfig represents an inconsistent static declaration, e.g. an AIR
	// demanding challenges without an auxiliary trace. Always detected
	// before any trace work starts.
	ErrConfig

	// ErrCommitFailed represents a prover-side commitment-scheme failure.
	// Fatal; proving is never partially resumed.
	ErrCommitFailed

	// ErrMalformedProof represents a structurally invalid proof, e.g. an
	// auxiliary commitment inconsistent with the AIR's static declaration
	// or opened rows of the wrong width.
	ErrMalformedProof

	// ErrConstraintViolation represents a folded constraint value that
	// fails the quotient identity at the out-of-domain point.
	ErrConstraintViolation

	// ErrOpeningInvalid represents a commitment-scheme opening that does
	// not verify against its commitment.
	ErrOpeningInvalid
)

func (c ErrorCode) String() string {
	switch c {
	case ErrConfig:
		return "config"
	case ErrCommitFailed:
		return "commit failed"
	case ErrMalformedProof:
		return "malformed proof"
	case ErrConstraintViolation:
		return "constraint violation"
	case ErrOpeningInvalid:
		return "opening invalid"
	default:
		return "unknown"
	}
}

// ProtocolError carries an error code alongside a message and an optional
// cause. Verification failures always reduce to one of these; they are
// reported, never panicked.
type ProtocolError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unistark error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("unistark error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so errors.Is works against code sentinels
// created with newError.
func (e *ProtocolError) Is(target error) bool {
	var pe *ProtocolError
	if errors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// IsCode reports whether err is a ProtocolError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// CodeOf extracts the error code, or ErrUnknown for foreign errors.
func CodeOf(err error) ErrorCode {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrUnknown
}

func newError(code ErrorCode, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, cause error, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
