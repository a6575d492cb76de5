package uicerr

import (
	"errors"
	"testing"
)

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Option: "r", Reason: "must be positive"}
	want := "config: r: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestInitError_Unwrap(t *testing.T) {
	cause := errors.New("device busy")
	err := &InitError{Component: "portaudio", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestInputError_Unwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := &InputError{Source: "stdin", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
