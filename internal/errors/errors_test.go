package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewNotFound(t *testing.T) {
	err := NewNotFound(42)

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if !strings.Contains(err.Message, "42") {
		t.Errorf("Message = %q, want it to contain the id", err.Message)
	}
	if err.Details["id"] != int64(42) {
		t.Errorf("Details[id] = %v, want 42", err.Details["id"])
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput("max_items must be between 10 and 100000")

	if err.Code != ErrInvalidInput {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidInput)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewStorageFailure_NilError(t *testing.T) {
	err := NewStorageFailure(nil)

	if err.Code != ErrStorageFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrStorageFailure)
	}
	if err.Message != "storage failure" {
		t.Errorf("Message = %q, want default message", err.Message)
	}
}

func TestNewClipboardUnavailable(t *testing.T) {
	err := NewClipboardUnavailable(stderrors.New("no display"))

	if err.Code != ErrClipboardUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrClipboardUnavailable)
	}
	if !strings.Contains(err.Message, "no display") {
		t.Errorf("Message = %q, want wrapped cause", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	err := NewInvalidInput("bad settings")

	want := "INVALID_INPUT: bad settings"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	if !Is(NewNotFound(7), ErrNotFound) {
		t.Error("Is should match a ClipError by code")
	}
	if Is(NewNotFound(7), ErrInvalidInput) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrInternal) {
		t.Error("Is should not match non-ClipError values")
	}
	if Is(nil, ErrInternal) {
		t.Error("Is should not match nil")
	}
}
