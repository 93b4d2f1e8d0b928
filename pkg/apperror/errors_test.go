package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New("PUR_001", "Insufficient balance", http.StatusPaymentRequired)
	assert.Equal(t, "[PUR_001] Insufficient balance", err.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, fmt.Errorf("conn refused"))
	assert.Equal(t, "[SYS_001] Internal server error: conn refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("deadlock detected")
	err := ErrTransientStore(inner)

	assert.ErrorIs(t, err, inner)

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, "SYS_002", appErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrInsufficientFunds(), "PUR_001", http.StatusPaymentRequired},
		{ErrInvalidAmount(), "PUR_002", http.StatusBadRequest},
		{ErrGoodUnavailable(), "PUR_003", http.StatusConflict},
		{ErrSelfPurchase(), "PUR_004", http.StatusConflict},
		{ErrNotFound("good"), "MKT_001", http.StatusNotFound},
		{ErrForbidden(), "MKT_002", http.StatusForbidden},
		{ErrInvalidCredentials(), "AUTH_001", http.StatusUnauthorized},
		{ErrUserExists(), "AUTH_002", http.StatusConflict},
		{ErrAccountBlocked(), "AUTH_004", http.StatusForbidden},
		{ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
	}
}

func TestErrNotFound_Entity(t *testing.T) {
	err := ErrNotFound("good")
	assert.Equal(t, "good not found", err.Message)
}
