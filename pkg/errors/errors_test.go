package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "invalid export format: %s", "docx")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidFormat)
	}
	if err.Message != "invalid export format: docx" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}

	want := "INVALID_FORMAT: invalid export format: docx"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "document generation failed")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}

	want := "NETWORK_ERROR: document generation failed: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "MatchingCode",
			err:  New(ErrCodeNoViewport, "no viewport"),
			code: ErrCodeNoViewport,
			want: true,
		},
		{
			name: "DifferentCode",
			err:  New(ErrCodeNoViewport, "no viewport"),
			code: ErrCodeCaptureFailed,
			want: false,
		},
		{
			name: "WrappedStructured",
			err:  fmt.Errorf("outer: %w", New(ErrCodeExportBusy, "busy")),
			code: ErrCodeExportBusy,
			want: true,
		},
		{
			name: "PlainError",
			err:  stderrors.New("plain"),
			code: ErrCodeInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidSession, "no session")); got != ErrCodeInvalidSession {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidSession)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeCaptureFailed, "diagram capture failed")
	if got := UserMessage(err); got != "diagram capture failed" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
