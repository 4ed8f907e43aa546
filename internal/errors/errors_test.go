package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("heat not found")

	if err.Kind != ErrNotFound {
		t.Errorf("expected Kind to be ErrNotFound (%d), got %d", ErrNotFound, err.Kind)
	}
	if err.Message != "heat not found" {
		t.Errorf("expected Message to be 'heat not found', got '%s'", err.Message)
	}
	if err.Err != nil {
		t.Errorf("expected Err to be nil, got %v", err.Err)
	}
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("heat %d not found", 123)

	if err.Kind != ErrNotFound {
		t.Errorf("expected Kind to be ErrNotFound (%d), got %d", ErrNotFound, err.Kind)
	}
	if err.Message != "heat 123 not found" {
		t.Errorf("expected Message to be 'heat 123 not found', got '%s'", err.Message)
	}
}

func TestState(t *testing.T) {
	err := Statef("tournament %d is not in setup", 7)

	if err.Kind != ErrState {
		t.Errorf("expected Kind to be ErrState (%d), got %d", ErrState, err.Kind)
	}
	if err.Message != "tournament 7 is not in setup" {
		t.Errorf("unexpected Message '%s'", err.Message)
	}
}

func TestConsistency(t *testing.T) {
	err := Consistency("next-round slot already occupied")

	if err.Kind != ErrConsistency {
		t.Errorf("expected Kind to be ErrConsistency (%d), got %d", ErrConsistency, err.Kind)
	}
	if err.Message != "next-round slot already occupied" {
		t.Errorf("unexpected Message '%s'", err.Message)
	}
}

func TestInternal(t *testing.T) {
	underlyingErr := fmt.Errorf("database connection failed")
	err := Internal(underlyingErr)

	if err.Kind != ErrInternal {
		t.Errorf("expected Kind to be ErrInternal (%d), got %d", ErrInternal, err.Kind)
	}
	if err.Message != "internal error" {
		t.Errorf("expected Message to be 'internal error', got '%s'", err.Message)
	}
	if err.Err != underlyingErr {
		t.Errorf("expected Err to be %v, got %v", underlyingErr, err.Err)
	}
}

func TestErrorMethod_WithWrappedError(t *testing.T) {
	underlyingErr := fmt.Errorf("database query failed")
	err := &Error{
		Kind:    ErrInternal,
		Message: "failed to fetch heat",
		Err:     underlyingErr,
	}

	expected := "failed to fetch heat: database query failed"
	if err.Error() != expected {
		t.Errorf("expected Error() to return '%s', got '%s'", expected, err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	underlyingErr := fmt.Errorf("original error")
	err := Wrap(underlyingErr, ErrConsistency, "wrapper")

	if err.Unwrap() != underlyingErr {
		t.Errorf("expected Unwrap() to return %v, got %v", underlyingErr, err.Unwrap())
	}
}

func TestErrorsAs_WrappedError(t *testing.T) {
	innerErr := fmt.Errorf("db error")
	appErr := Wrap(innerErr, ErrInternal, "service error")
	wrappedErr := fmt.Errorf("handler error: %w", appErr)

	var extractedErr *Error
	if !errors.As(wrappedErr, &extractedErr) {
		t.Error("expected errors.As to return true for wrapped *Error")
	}
	if extractedErr.Kind != ErrInternal {
		t.Errorf("expected Kind to be ErrInternal, got %d", extractedErr.Kind)
	}
}

func TestErrorsAs_NonAppError(t *testing.T) {
	err := fmt.Errorf("regular error")

	var appErr *Error
	if errors.As(err, &appErr) {
		t.Error("expected errors.As to return false for non-*Error")
	}
}

func TestErrorsIs_WithWrappedStandardError(t *testing.T) {
	sentinelErr := fmt.Errorf("sentinel error")
	appErr := Wrap(sentinelErr, ErrInternal, "application error")

	if !errors.Is(appErr, sentinelErr) {
		t.Error("expected errors.Is to find sentinel error in chain")
	}
}

func TestAllConstructors(t *testing.T) {
	underlyingErr := fmt.Errorf("underlying")

	testCases := []struct {
		name         string
		constructor  func() *Error
		expectedKind Kind
		checkMessage string
		hasErr       bool
	}{
		{"NotFound", func() *Error { return NotFound("msg") }, ErrNotFound, "msg", false},
		{"NotFoundf", func() *Error { return NotFoundf("msg %d", 1) }, ErrNotFound, "msg 1", false},
		{"Validation", func() *Error { return Validation("msg") }, ErrValidation, "msg", false},
		{"Validationf", func() *Error { return Validationf("msg %d", 1) }, ErrValidation, "msg 1", false},
		{"State", func() *Error { return State("msg") }, ErrState, "msg", false},
		{"Statef", func() *Error { return Statef("msg %d", 1) }, ErrState, "msg 1", false},
		{"Consistency", func() *Error { return Consistency("msg") }, ErrConsistency, "msg", false},
		{"Consistencyf", func() *Error { return Consistencyf("msg %d", 1) }, ErrConsistency, "msg 1", false},
		{"Internal", func() *Error { return Internal(underlyingErr) }, ErrInternal, "internal error", true},
		{"Internalf", func() *Error { return Internalf("msg %d", 1) }, ErrInternal, "msg 1", false},
		{"Wrap_Validation", func() *Error { return Wrap(underlyingErr, ErrValidation, "msg") }, ErrValidation, "msg", true},
		{"Wrap_Consistency", func() *Error { return Wrap(underlyingErr, ErrConsistency, "msg") }, ErrConsistency, "msg", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()

			if err.Kind != tc.expectedKind {
				t.Errorf("expected Kind %d, got %d", tc.expectedKind, err.Kind)
			}
			if err.Message != tc.checkMessage {
				t.Errorf("expected Message '%s', got '%s'", tc.checkMessage, err.Message)
			}
			if tc.hasErr && err.Err == nil {
				t.Error("expected Err to be non-nil")
			}
			if !tc.hasErr && err.Err != nil {
				t.Errorf("expected Err to be nil, got %v", err.Err)
			}
		})
	}
}
