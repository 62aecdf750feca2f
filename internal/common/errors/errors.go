// Package errors provides standardized error handling for the KPI prediction pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Model lifecycle errors.
	ErrCodeInitialization      ErrorCode = "INITIALIZATION_ERROR"
	ErrCodeTrainingUnavailable ErrorCode = "TRAINING_UNAVAILABLE"
	ErrCodeArtifactInvalid     ErrorCode = "ARTIFACT_INVALID"

	// Encoding / normalization errors.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// Infrastructure errors.
	ErrCodeSessionStoreUnavailable  ErrorCode = "SESSION_STORE_UNAVAILABLE"
	ErrCodeReferenceDataUnavailable ErrorCode = "REFERENCE_DATA_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code, so callers
// can match with errors.Is against a constructor-produced sentinel.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInitializationError signals that Predict was called before the model and
// scalers were loaded. Fatal for the prediction path; the caller may fall back
// to baseline-only responses.
func NewInitializationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInitialization,
		Message:   "Model not initialized",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTrainingUnavailableError signals a cache miss (missing or stale artifact
// bundle) in a runtime that cannot retrain. Not a crash: the surrounding
// service degrades to baseline-only responses.
func NewTrainingUnavailableError(fingerprint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTrainingUnavailable,
		Message:   "No valid cached model for current dataset and retraining is unsupported in this runtime",
		Details:   fmt.Sprintf("datasetFingerprint: %s", fingerprint),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactInvalidError creates a non-retryable artifact bundle error.
// cause may be nil.
func NewArtifactInvalidError(details string, cause error) *StandardError {
	if cause != nil {
		details = fmt.Sprintf("%s: %v", details, cause)
	}
	return &StandardError{
		Code:      ErrCodeArtifactInvalid,
		Message:   "Artifact bundle is missing files or internally inconsistent",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDimensionMismatchError creates a non-retryable shape error. A scaler or
// model receiving the wrong width is always fatal, never silently padded.
func NewDimensionMismatchError(component string, want, got int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDimensionMismatch,
		Message:   "Feature sub-range width mismatch",
		Details:   fmt.Sprintf("component: %s, expected: %d, got: %d", component, want, got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreUnavailableError creates a retryable session backend error.
func NewSessionStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreUnavailable,
		Message:   "Session store backend error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReferenceDataUnavailableError creates a retryable reference table error.
// The scenario generator handles this by falling back to synthetic tables.
func NewReferenceDataUnavailableError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceDataUnavailable,
		Message:   "Reference tables could not be loaded",
		Details:   fmt.Sprintf("table: %s: %v", table, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsTrainingUnavailable reports whether err is the typed cache-miss signal.
func IsTrainingUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeTrainingUnavailable
}

// IsInitialization reports whether err is a predict-before-initialize error.
func IsInitialization(err error) bool {
	return CodeOf(err) == ErrCodeInitialization
}

// IsDimensionMismatch reports whether err is a shape error.
func IsDimensionMismatch(err error) bool {
	return CodeOf(err) == ErrCodeDimensionMismatch
}
