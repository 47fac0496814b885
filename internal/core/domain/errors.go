// Package domain defines the core domain models for hbr-recover.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a recovery error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "HBR-DSK-4220")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Input Errors (IN)
// ============================================================================

var (
	// ErrIndexNotFound indicates the replica folder holds no hbrgrp.*.txt index.
	ErrIndexNotFound = NewDomainError("HBR-IN-4040", "replication index file not found")
)

// ============================================================================
// Index Errors (IDX)
// ============================================================================

var (
	// ErrIndexStructure indicates the index or a restore point is structurally
	// unusable (missing or duplicate file references, path conflicts).
	ErrIndexStructure = NewDomainError("HBR-IDX-4220", "malformed replication index")

	// ErrIndexFieldMissing indicates a required index field is absent or invalid.
	ErrIndexFieldMissing = NewDomainError("HBR-IDX-4221", "missing required index field")
)

// ============================================================================
// Restore Point Errors (DSK, TS, CFG)
// ============================================================================

var (
	// ErrUnresolvableAttachment indicates no machine-config key carries the
	// disk's identifier, so its attachment node is unknown.
	ErrUnresolvableAttachment = NewDomainError("HBR-DSK-4220", "unresolvable disk attachment")

	// ErrTimestampParse indicates a restore point timestamp has an unexpected format.
	ErrTimestampParse = NewDomainError("HBR-TS-4220", "invalid restore point timestamp")

	// ErrConfigValueMissing indicates a required machine-config value is absent.
	ErrConfigValueMissing = NewDomainError("HBR-CFG-4221", "missing required machine config value")
)

// ============================================================================
// Output Errors (OUT, SNP)
// ============================================================================

var (
	// ErrOutputConflict indicates a write or archive step would clobber an existing file.
	ErrOutputConflict = NewDomainError("HBR-OUT-4090", "output conflict")

	// ErrSnapshotCorrupt indicates a snapshot-state file does not follow the container layout.
	ErrSnapshotCorrupt = NewDomainError("HBR-SNP-4220", "corrupt snapshot state file")
)
