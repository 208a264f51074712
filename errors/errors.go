package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for the toolkit.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// --- Common Error Constructors ---

// NotFitted creates a new AppError for a transform on an unfitted stage.
func NotFitted(stage string) *AppError {
	return &AppError{
		Code: ErrCodeNotFitted, Message: fmt.Sprintf("stage %s has not been fitted and no persisted state could be recovered", stage),
		Retryable: false,
		Details:   map[string]any{"stage": stage},
	}
}

// StateMissing creates a new AppError for a persisted state key that does not exist.
func StateMissing(key string) *AppError {
	return &AppError{
		Code: ErrCodeStateMissing, Message: fmt.Sprintf("no persisted state found for key %q", key),
		Retryable: false,
		Details:   map[string]any{"key": key},
	}
}

// StateVersion creates a new AppError for an incompatible snapshot schema version.
func StateVersion(key string, want, got int) *AppError {
	return &AppError{
		Code: ErrCodeStateVersion, Message: fmt.Sprintf("persisted state for key %q has schema version %d, expected %d", key, got, want),
		Retryable: false,
		Details:   map[string]any{"key": key, "want": want, "got": got},
	}
}

// StoreUnavailable creates a new AppError for a store that cannot be reached.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code: ErrCodeStoreUnavailable, Message: "the state store is unavailable",
		Retryable: true, Cause: cause,
	}
}

// Serialization creates a new AppError for an encode/decode failure.
func Serialization(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSerialization, Message: fmt.Sprintf("failed to %s stage state", op),
		Retryable: false, Cause: cause,
		Details: map[string]any{"operation": op},
	}
}

// ShapeMismatch creates a new AppError for a sample whose shape differs from the fitted shape.
func ShapeMismatch(want, got []int) *AppError {
	return &AppError{
		Code: ErrCodeShapeMismatch, Message: fmt.Sprintf("sample shape %v does not match fitted shape %v", got, want),
		Retryable: false,
		Details:   map[string]any{"want": want, "got": got},
	}
}

// SequenceTooLong creates a new AppError for a sequence exceeding the fitted maximum length.
func SequenceTooLong(length, maxLength int) *AppError {
	return &AppError{
		Code: ErrCodeSequenceTooLong, Message: fmt.Sprintf("sequence of length %d exceeds fitted maximum length %d", length, maxLength),
		Retryable: false,
		Details:   map[string]any{"length": length, "max_length": maxLength},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		Retryable: false,
		Details:   map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Retryable: false, Cause: cause,
	}
}
