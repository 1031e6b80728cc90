package engine

import (
	"errors"
	"fmt"
)

// RunErrorCode categorizes rejected commands.
type RunErrorCode string

const (
	// ErrCodeWrongPhase indicates the command does not apply to the current phase.
	ErrCodeWrongPhase RunErrorCode = "WRONG_PHASE"

	// ErrCodeTransitionPending indicates a deferred transition has not been applied yet.
	ErrCodeTransitionPending RunErrorCode = "TRANSITION_PENDING"

	// ErrCodeClosed indicates the run was closed.
	ErrCodeClosed RunErrorCode = "RUN_CLOSED"
)

// Sentinels for errors.Is. Commands return *PhaseError values that match
// ErrWrongPhase, and plain wrapped sentinels for the rest.
var (
	ErrWrongPhase        = errors.New("command not allowed in this phase")
	ErrTransitionPending = errors.New("a transition is pending")
	ErrClosed            = errors.New("run is closed")
)

// PhaseError reports a command issued in a phase it does not apply to.
// The run is left unchanged.
type PhaseError struct {
	Command  string
	Phase    Phase
	RunToken string
}

// Code returns ErrCodeWrongPhase.
func (e *PhaseError) Code() RunErrorCode {
	return ErrCodeWrongPhase
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s not allowed in phase %s (run=%s)", ErrCodeWrongPhase, e.Command, e.Phase, e.RunToken)
}

// Is matches ErrWrongPhase.
func (e *PhaseError) Is(target error) bool {
	return target == ErrWrongPhase
}

// ErrorCode maps a command error to its code, or "" for nil and foreign errors.
func ErrorCode(err error) RunErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWrongPhase):
		return ErrCodeWrongPhase
	case errors.Is(err, ErrTransitionPending):
		return ErrCodeTransitionPending
	case errors.Is(err, ErrClosed):
		return ErrCodeClosed
	default:
		return ""
	}
}
