package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "wealth/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertSingleDefault fails the test unless exactly one of the user's
// accounts is flagged default.
func AssertSingleDefault(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()

	if n := CountDefaultAccounts(t, db, userID); n != 1 {
		t.Errorf("expected exactly 1 default account for user %s, got %d", userID, n)
	}
}
