package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestNewRateLimited(t *testing.T) {
	// Arrange
	wait := 41*time.Second + 200*time.Millisecond

	// Act
	err := NewRateLimited("too many codes requested", "cooldown", wait)

	// Assert
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.StatusCode() != http.StatusTooManyRequests {
		t.Fatalf("status = %d", gerr.StatusCode())
	}
	if gerr.RetryAfter() != wait {
		t.Fatalf("retry after = %s", gerr.RetryAfter())
	}
	if gerr.Fields()["reason"] != "cooldown" || gerr.Fields()["retry_after_seconds"] != "42" {
		t.Fatalf("fields = %#v", gerr.Fields())
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "Business", err: NewBusiness("gone", CodeNotFound), want: CodeNotFound},
		{name: "Wrapped", err: fmt.Errorf("ctx: %w", NewBusiness("dup", CodeConflict)), want: CodeConflict},
		{name: "Plain", err: errors.New("boom"), want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewInvalidInput(t *testing.T) {
	t.Run("Pairs", func(t *testing.T) {
		// Act
		err := NewInvalidInput(nil, "code", "must be 6 digits")

		// Assert
		var gerr *Error
		if !errors.As(err, &gerr) || gerr.Fields()["code"] != "must be 6 digits" {
			t.Fatalf("unexpected error %#v", err)
		}
		if gerr.StatusCode() != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", gerr.StatusCode())
		}
	})

	t.Run("OddPairs", func(t *testing.T) {
		// Act
		err := NewInvalidInput(nil, "code")

		// Assert
		if CodeOf(err) != CodeInvalidFormat {
			t.Fatalf("expected invalid format, got %s", CodeOf(err))
		}
	})
}
