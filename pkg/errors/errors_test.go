package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCapacityExceeded(t *testing.T) {
	err := CapacityExceeded(12, 8)

	if err.Code != CodeCapacity {
		t.Errorf("expected code %s, got %s", CodeCapacity, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["available"] != 8 {
		t.Errorf("expected available 8 in details, got %v", err.Details["available"])
	}
	if err.Details["requested"] != 12 {
		t.Errorf("expected requested 12 in details, got %v", err.Details["requested"])
	}
}

func TestHoldExpired(t *testing.T) {
	err := HoldExpired("abc123")

	if err.Code != CodeHoldExpired {
		t.Errorf("expected code %s, got %s", CodeHoldExpired, err.Code)
	}
	if err.HTTPStatus != http.StatusGone {
		t.Errorf("expected status %d, got %d", http.StatusGone, err.HTTPStatus)
	}
	if err.Details["booking_id"] != "abc123" {
		t.Errorf("expected booking_id in details, got %v", err.Details["booking_id"])
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"internal error is retryable", Internal("db down", errors.New("conn refused")), true},
		{"timeout is retryable", Timeout("gateway timed out"), true},
		{"unavailable is retryable", Unavailable("payment gateway"), true},
		{"capacity is not retryable", CapacityExceeded(5, 2), false},
		{"validation is not retryable", Validation("bad email", nil), false},
		{"hold expired is not retryable", HoldExpired("id"), false},
		{"invalid state is not retryable", InvalidState("already cancelled", nil), false},
		{"plain error is not retryable", errors.New("whatever"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("expected same AppError back")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain error converted to %s, got %s", CodeInternal, converted.Code)
	}
	if converted.Err != plain {
		t.Errorf("expected original error preserved")
	}
}
