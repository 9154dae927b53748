package phaselight

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions of a traffic light
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Transition is not part of the phase cycle
	ErrCodeTransitionNotAllowed
	// Phase value is outside the known set
	ErrCodeInvalidPhase
	// Cycle loop is already running
	ErrCodeAlreadyStarted
	// Cycle loop is not running
	ErrCodeNotStarted
	// Light configuration is invalid
	ErrCodeInvalidConfiguration
	// Observer panicked while being notified
	ErrCodeObserverPanic
)

// String returns a short name for the code
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "none"
	case ErrCodeTransitionNotAllowed:
		return "transition_not_allowed"
	case ErrCodeInvalidPhase:
		return "invalid_phase"
	case ErrCodeAlreadyStarted:
		return "already_started"
	case ErrCodeNotStarted:
		return "not_started"
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeObserverPanic:
		return "observer_panic"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// TransitionError represents a phase change outside the cycle
type TransitionError struct {
	Code   ErrorCode
	From   Phase
	To     Phase
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error [%s->%s]: %s", e.From, e.To, e.Reason)
}

// NewTransitionNotAllowedError creates a new transition not allowed error
func NewTransitionNotAllowedError(from, to Phase) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeTransitionNotAllowed,
		From:   from,
		To:     to,
		Reason: "transition not allowed",
	}
}

// NewInvalidPhaseError creates an error for a phase value outside the cycle
func NewInvalidPhaseError(from, to Phase) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeInvalidPhase,
		From:   from,
		To:     to,
		Reason: "unknown phase",
	}
}

// ConfigurationError represents light configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// MachineError represents lifecycle errors of the cycle loop
type MachineError struct {
	Code      ErrorCode
	Operation string
	Message   string
}

func (e *MachineError) Error() string {
	return fmt.Sprintf("machine error during %s: %s", e.Operation, e.Message)
}

// NewAlreadyStartedError creates an error for a second concurrent start
func NewAlreadyStartedError(operation string) *MachineError {
	return &MachineError{
		Code:      ErrCodeAlreadyStarted,
		Operation: operation,
		Message:   "traffic light is already cycling",
	}
}

// NewNotStartedError creates an error for operations needing a running loop
func NewNotStartedError(operation string) *MachineError {
	return &MachineError{
		Code:      ErrCodeNotStarted,
		Operation: operation,
		Message:   "traffic light is not cycling",
	}
}

// NewMachineError creates a new machine error
func NewMachineError(code ErrorCode, operation string, message string) *MachineError {
	return &MachineError{
		Code:      code,
		Operation: operation,
		Message:   message,
	}
}

// IsTransitionError checks if an error is a TransitionError
func IsTransitionError(err error) bool {
	var target *TransitionError
	return errors.As(err, &target)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsMachineError checks if an error is a MachineError
func IsMachineError(err error) bool {
	var target *MachineError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var transitionErr *TransitionError
	var machineErr *MachineError
	var configErr *ConfigurationError

	switch {
	case errors.As(err, &transitionErr):
		return transitionErr.Code
	case errors.As(err, &machineErr):
		return machineErr.Code
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	default:
		return ErrCodeNone
	}
}
