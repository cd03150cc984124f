package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedRange, "bad range: %s", "[1,")

	if err.Code != ErrCodeMalformedRange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedRange)
	}
	if err.Message != "bad range: [1," {
		t.Errorf("Message = %v, want %v", err.Message, "bad range: [1,")
	}
	expected := "MALFORMED_RANGE: bad range: [1,"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch failed")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeTimeout, "x"), ErrCodeTimeout, true},
		{"non-matching code", New(ErrCodeTimeout, "x"), ErrCodeNetwork, false},
		{"outer code", Wrap(ErrCodeResolution, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeResolution, true},
		{"inner code", Wrap(ErrCodeResolution, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeNotFound, true},
		{"behind fmt wrap", fmt.Errorf("ctx: %w", New(ErrCodeCorrupt, "x")), ErrCodeCorrupt, true},
		{"plain error", errors.New("plain"), ErrCodeTimeout, false},
		{"nil", nil, ErrCodeTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeMalformedCoordinate, "x")); got != ErrCodeMalformedCoordinate {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestTemporary(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeNetwork, true},
		{ErrCodeCorrupt, true},
		{ErrCodeNotFound, true},
		{ErrCodeMalformedCoordinate, false},
		{ErrCodeMalformedRange, false},
		{ErrCodeInvalidConfig, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Temporary(New(tt.code, "x")); got != tt.want {
				t.Errorf("Temporary(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "junit:junit:4.99 not found")); got != "junit:junit:4.99 not found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	wrapped := Wrap(ErrCodeResolution, Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch pom"), "resolve app")
	if got := UserMessage(wrapped); got != "resolve app: fetch pom: connection refused" {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}
}
