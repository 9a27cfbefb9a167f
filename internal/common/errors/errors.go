// Package errors provides the structured error model shared by the engine and the Zeebe workers.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeExtractionFailed      ErrorCode = "EXTRACTION_FAILED"
	ErrCodeExtractionTimeout     ErrorCode = "EXTRACTION_TIMEOUT"
	ErrCodeClassifierUnavailable ErrorCode = "CLASSIFIER_UNAVAILABLE"

	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
	ErrCodeInvalidProfile   ErrorCode = "INVALID_PROFILE"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeAnalysisFailed   ErrorCode = "ANALYSIS_FAILED"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeSnapshotPersistFailed    ErrorCode = "SNAPSHOT_PERSIST_FAILED"
	ErrCodeHistoryQueryFailed       ErrorCode = "HISTORY_QUERY_FAILED"
	ErrCodeBusinessNotFound         ErrorCode = "BUSINESS_NOT_FOUND"

	ErrCodePresentationFailed ErrorCode = "PRESENTATION_FAILED"

	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, details string, retryable bool) *StandardError {
	if details == "" && cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables set on a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewExtractionFailedError reports an extractor call error or malformed payload.
func NewExtractionFailedError(err error) *StandardError {
	return newError(ErrCodeExtractionFailed, "Field extraction failed", err, "", true)
}

// NewExtractionTimeoutError reports an extractor call that ran out of time.
func NewExtractionTimeoutError(err error) *StandardError {
	return newError(ErrCodeExtractionTimeout, "Field extraction timeout", err, "", true)
}

// NewClassifierUnavailableError reports a missing-data classifier failure.
func NewClassifierUnavailableError(err error) *StandardError {
	return newError(ErrCodeClassifierUnavailable, "Missing-data classifier unavailable", err, "", true)
}

// NewInsufficientDataError is returned when an analysis is requested before the required fields exist.
func NewInsufficientDataError(missing []string) *StandardError {
	return newError(ErrCodeInsufficientData, "Required business data is missing", nil,
		fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), false)
}

// NewInvalidProfileError reports a profile that cannot be decoded or validated.
func NewInvalidProfileError(details string) *StandardError {
	return newError(ErrCodeInvalidProfile, "Business profile is invalid", nil, details, false)
}

// NewInvalidInputError reports malformed job variables.
func NewInvalidInputError(err error) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", err, "", false)
}

// NewAnalysisFailedError wraps an unexpected failure while building an analysis.
func NewAnalysisFailedError(err error) *StandardError {
	return newError(ErrCodeAnalysisFailed, "Business analysis failed", err, "", true)
}

// NewSessionNotFoundError reports an owner without a live session.
func NewSessionNotFoundError(ownerID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Conversation session not found", nil,
		fmt.Sprintf("ownerId: %s", ownerID), false)
}

// NewSessionStoreFailedError reports a session store read or write failure.
func NewSessionStoreFailedError(op string, err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store operation failed", err,
		fmt.Sprintf("op: %s, error: %v", op, err), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, "", true)
}

// NewSnapshotPersistFailedError reports a failed profile or snapshot write.
func NewSnapshotPersistFailedError(businessID string, err error) *StandardError {
	return newError(ErrCodeSnapshotPersistFailed, "Snapshot could not be stored", err,
		fmt.Sprintf("businessId: %s, error: %v", businessID, err), true)
}

// NewHistoryQueryFailedError reports a failed history read.
func NewHistoryQueryFailedError(businessID string, err error) *StandardError {
	return newError(ErrCodeHistoryQueryFailed, "Snapshot history query failed", err,
		fmt.Sprintf("businessId: %s, error: %v", businessID, err), true)
}

// NewBusinessNotFoundError reports an unknown business id.
func NewBusinessNotFoundError(businessID string) *StandardError {
	return newError(ErrCodeBusinessNotFound, "Business not found", nil,
		fmt.Sprintf("businessId: %s", businessID), false)
}

// NewPresentationFailedError reports a failed hand-off to the presenter.
func NewPresentationFailedError(channel string, err error) *StandardError {
	return newError(ErrCodePresentationFailed, "Analysis delivery failed", err,
		fmt.Sprintf("channel: %s, error: %v", channel, err), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, nil, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err, "", true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err, "", true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the retry budget for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeSnapshotPersistFailed,
		ErrCodeHistoryQueryFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeExtractionFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeExtractionTimeout,
		ErrCodeClassifierUnavailable,
		ErrCodeTimeout,
		ErrCodePresentationFailed:
		return 2

	case ErrCodeAnalysisFailed:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and log queries.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "EXTRACTION") || strings.HasPrefix(codeStr, "CLASSIFIER"):
		return "AI"
	case strings.HasPrefix(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SNAPSHOT") ||
		strings.Contains(codeStr, "HISTORY") || strings.HasPrefix(codeStr, "BUSINESS_NOT"):
		return "DATABASE"
	case strings.HasPrefix(codeStr, "PRESENTATION"):
		return "PRESENTATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "INSUFFICIENT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ANALYSIS"):
		return "ANALYSIS"
	default:
		return "OTHER"
	}
}
