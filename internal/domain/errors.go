package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrFormNotFound         = errors.New("form not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrStatusTransition     = errors.New("booking status transition not allowed")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrOrderIDRequired      = errors.New("order id is required")
	ErrCaptureInProgress    = errors.New("capture already in progress for this order")
	ErrAttemptNotFound      = errors.New("payment attempt not found")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrDuplicateTransaction = errors.New("booking already exists for this transaction")
)

// FieldErrors maps a field path (e.g. "returnDate", "passengers[0].name") to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// First returns the first message recorded for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ValidationError is returned when field checks fail. It is recoverable by the caller.
type ValidationError struct {
	Fields FieldErrors
}

func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
