// Package errors provides unified error handling for prepkit.
// It implements structured error types with machine-readable error codes
// and retryable detection, so callers can branch on failure categories
// (missing persisted state, shape mismatches, unfitted access) without
// string matching.
package errors
