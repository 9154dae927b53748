package phaselight

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrors_ErrorCode(t *testing.T) {
	testCases := []ErrorCode{
		ErrCodeNone,
		ErrCodeTransitionNotAllowed,
		ErrCodeInvalidPhase,
		ErrCodeAlreadyStarted,
		ErrCodeNotStarted,
		ErrCodeInvalidConfiguration,
		ErrCodeObserverPanic,
	}

	for i, code := range testCases {
		if int(code) != i {
			t.Errorf("Expected error code %d to have value %d", i, int(code))
		}
		if code.String() == "" {
			t.Errorf("Expected non-empty name for code %d", i)
		}
	}
}

func TestTransitionError_Creation(t *testing.T) {
	err := NewTransitionNotAllowedError(Red, Red)

	if err.Code != ErrCodeTransitionNotAllowed {
		t.Errorf("Expected error code %v, got %v", ErrCodeTransitionNotAllowed, err.Code)
	}

	if !strings.Contains(err.Error(), "red->red") {
		t.Errorf("Expected error string to contain phases, got '%s'", err.Error())
	}
}

func TestMachineError_Creation(t *testing.T) {
	err := NewAlreadyStartedError("Simulate")

	if err.Code != ErrCodeAlreadyStarted {
		t.Errorf("Expected error code %v, got %v", ErrCodeAlreadyStarted, err.Code)
	}

	if !strings.Contains(err.Error(), "Simulate") {
		t.Error("Expected error string to contain operation")
	}

	custom := NewMachineError(ErrCodeObserverPanic, "OnSend", "boom")
	if custom.Message != "boom" || custom.Operation != "OnSend" {
		t.Error("Expected custom machine error fields")
	}
}

func TestConfigurationError_Creation(t *testing.T) {
	err := NewConfigurationError("Config", "bad bounds")

	if err.Error() != "configuration error in Config: bad bounds" {
		t.Errorf("Unexpected error string '%s'", err.Error())
	}
}

func TestErrors_Predicates(t *testing.T) {
	wrapped := fmt.Errorf("start light: %w", NewAlreadyStartedError("Simulate"))

	if !IsMachineError(wrapped) {
		t.Error("Expected wrapped machine error to be detected")
	}
	if IsTransitionError(wrapped) {
		t.Error("Expected wrapped machine error not to be a transition error")
	}
	if GetErrorCode(wrapped) != ErrCodeAlreadyStarted {
		t.Error("Expected error code to be read through wrapping")
	}

	if !IsTransitionError(NewInvalidPhaseError(Red, Phase(4))) {
		t.Error("Expected transition error to be detected")
	}
	if !IsConfigurationError(NewConfigurationError("a", "b")) {
		t.Error("Expected configuration error to be detected")
	}

	if GetErrorCode(errors.New("plain")) != ErrCodeNone {
		t.Error("Expected unknown errors to map to ErrCodeNone")
	}
	if GetErrorCode(nil) != ErrCodeNone {
		t.Error("Expected nil to map to ErrCodeNone")
	}
}
