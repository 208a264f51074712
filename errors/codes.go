package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Fit/transform lifecycle errors
const (
	// ErrCodeNotFitted indicates a transform was attempted on an unfitted stage in strict mode.
	ErrCodeNotFitted ErrorCode = "NOT_FITTED"
	// ErrCodeShapeMismatch indicates a sample shape differs from the fitted shape.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
	// ErrCodeSequenceTooLong indicates a token sequence exceeds the fitted maximum length.
	ErrCodeSequenceTooLong ErrorCode = "SEQUENCE_TOO_LONG"
)

// Persisted state errors
const (
	// ErrCodeStateMissing indicates no persisted state exists for the requested key.
	ErrCodeStateMissing ErrorCode = "STATE_MISSING"
	// ErrCodeStateVersion indicates a persisted snapshot has an incompatible schema version.
	ErrCodeStateVersion ErrorCode = "STATE_VERSION_MISMATCH"
	// ErrCodeStoreUnavailable indicates the backing store cannot be reached.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeSerialization indicates state could not be encoded or decoded.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStoreUnavailable: true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
