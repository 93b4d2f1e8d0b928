package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Purchase Business Logic (PUR) ----

func ErrInsufficientFunds() *AppError {
	return New("PUR_001", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("PUR_002", "Invalid amount", http.StatusBadRequest)
}

func ErrGoodUnavailable() *AppError {
	return New("PUR_003", "Good is not available for purchase", http.StatusConflict)
}

func ErrSelfPurchase() *AppError {
	return New("PUR_004", "Sellers cannot purchase their own goods", http.StatusConflict)
}

// ---- Marketplace (MKT) ----

func ErrNotFound(entity string) *AppError {
	return New("MKT_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrForbidden() *AppError {
	return New("MKT_002", "Operation not permitted", http.StatusForbidden)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("MKT_003", message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUserExists() *AppError {
	return New("AUTH_002", "Login or email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountBlocked() *AppError {
	return New("AUTH_004", "Account is blocked", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrTransientStore marks a store-level failure (lock timeout, deadlock,
// serialization conflict, lost connection) that is safe to retry from the top.
func ErrTransientStore(err error) *AppError {
	return Wrap("SYS_002", "Temporary storage failure, retry the operation", http.StatusServiceUnavailable, err)
}
