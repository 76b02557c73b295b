package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrGateway        = errors.New("payment gateway error")
	ErrReconciliation = errors.New("reconciliation failure")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// AccountInactive creates a 401 error for a valid token whose account can no
// longer authenticate. The message stays generic so callers cannot tell it
// apart from a bad token by text alone.
func AccountInactive() *AppError {
	return &AppError{
		Code:    "ACCOUNT_INACTIVE",
		Message: "authentication failed",
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// DuplicateOrder creates a 409 error for a booking that already has an active
// payment order.
func DuplicateOrder(bookingID string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_ORDER",
		Message: fmt.Sprintf("an active payment order already exists for booking %s", bookingID),
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// GatewayError creates a 502 error for a failed call to the payment gateway.
func GatewayError(err error) *AppError {
	return &AppError{
		Code:    "GATEWAY_ERROR",
		Message: "payment gateway request failed",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrGateway, err),
	}
}

// SignatureInvalid creates a 400 error for a completion proof whose signature
// does not verify. The message does not say which part of the proof failed.
func SignatureInvalid() *AppError {
	return &AppError{
		Code:    "SIGNATURE_INVALID",
		Message: "payment verification failed",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// PaymentConflict creates a 409 error for a verify call whose payment id does
// not match the one already recorded for a captured payment.
func PaymentConflict(remoteOrderID string) *AppError {
	return &AppError{
		Code:    "PAYMENT_CONFLICT",
		Message: fmt.Sprintf("payment for order %s was captured with a different payment id", remoteOrderID),
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// ReconciliationFailure creates a 500 error for state left inconsistent by a
// partial failure. Callers must log correlation data before returning it.
func ReconciliationFailure(err error) *AppError {
	return &AppError{
		Code:    "RECONCILIATION_FAILURE",
		Message: "payment completed but correlated state could not be updated",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrReconciliation, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
