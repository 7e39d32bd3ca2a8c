package store

import (
	"errors"
	"fmt"
)

// ValidationError means an action referenced a non-existent id, supplied an
// out-of-range ruleset/draw tag, or violated a structural bound. Apply must
// refuse and leave state unchanged.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionLostError means a referenced entity no longer exists at apply
// time during replay. This is not a failure: apply and undo both become
// no-ops and the action stays on the log.
type PreconditionLostError struct {
	Msg string
}

func (e *PreconditionLostError) Error() string { return "precondition lost: " + e.Msg }

// NewPreconditionLost builds a PreconditionLostError with a formatted message.
func NewPreconditionLost(format string, args ...any) error {
	return &PreconditionLostError{Msg: fmt.Sprintf(format, args...)}
}

// InternalInvariantViolation means a consistency check failed, e.g. a
// player's categories and a category's players disagreed. It is fatal: the
// manager must abort the tournament strand and reload from a snapshot.
type InternalInvariantViolation struct {
	Msg string
}

func (e *InternalInvariantViolation) Error() string { return "invariant violation: " + e.Msg }

// NewInvariantViolation builds an InternalInvariantViolation.
func NewInvariantViolation(format string, args ...any) error {
	return &InternalInvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

// IsPreconditionLost reports whether err is (or wraps) a PreconditionLostError.
func IsPreconditionLost(err error) bool {
	var pl *PreconditionLostError
	return errors.As(err, &pl)
}

// ProtocolError means a replication peer sent a message that doesn't match
// the expected JOIN/SYNC/ACTION/UNDO shape for the connection's current
// state. The connection must be dropped.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "protocol: " + e.Msg }

// NewProtocolError builds a ProtocolError with a formatted message.
func NewProtocolError(format string, args ...any) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps a failure from the underlying transport or persistence
// layer (closed socket, disk write failure). It is recoverable at the
// connection or save-file level, unlike InternalInvariantViolation.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return "io: " + e.Msg + ": " + e.Err.Error()
	}
	return "io: " + e.Msg
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps a lower-level error as an IOError.
func NewIOError(msg string, err error) error {
	return &IOError{Msg: msg, Err: err}
}
