// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileReadFailed   ErrorCode = "PROFILE_READ_FAILED"
	ErrCodeProfileNotFound     ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileUpsertFailed ErrorCode = "PROFILE_UPSERT_FAILED"

	ErrCodeOfferingReadFailed   ErrorCode = "OFFERING_READ_FAILED"
	ErrCodeOfferingNotFound     ErrorCode = "OFFERING_NOT_FOUND"
	ErrCodeOfferingNotAvailable ErrorCode = "OFFERING_NOT_AVAILABLE"
	ErrCodeOfferingWriteFailed  ErrorCode = "OFFERING_WRITE_FAILED"

	ErrCodeCompanyRequired    ErrorCode = "COMPANY_REQUIRED"
	ErrCodeCompanyNotFound    ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeCompanyWriteFailed ErrorCode = "COMPANY_WRITE_FAILED"

	ErrCodeDuplicateInterest    ErrorCode = "DUPLICATE_INTEREST"
	ErrCodeInterestNotFound     ErrorCode = "INTEREST_NOT_FOUND"
	ErrCodeInterestWriteFailed  ErrorCode = "INTEREST_WRITE_FAILED"
	ErrCodeAmountBelowMinimum   ErrorCode = "AMOUNT_BELOW_MINIMUM"
	ErrCodeAlreadySavedOffering ErrorCode = "ALREADY_SAVED"

	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeActivityLogFailed  ErrorCode = "ACTIVITY_LOG_FAILED"
	ErrCodeDashboardReadError ErrorCode = "DASHBOARD_READ_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationWriteFailed ErrorCode = "NOTIFICATION_WRITE_FAILED"
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewProfileReadFailedError creates a retryable error for profile read failures.
// Distinct from "profile not found", which is a normal business outcome.
func NewProfileReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileReadFailed,
		Message:   "Database error while reading investor profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileUpsertFailedError creates a retryable profile write error.
func NewProfileUpsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileUpsertFailed,
		Message:   "Database error while saving investor profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfferingReadFailedError creates a retryable offering read error.
func NewOfferingReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOfferingReadFailed,
		Message:   "Database error while reading offerings",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfferingNotFoundError creates a non-retryable missing offering error.
func NewOfferingNotFoundError(offeringID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOfferingNotFound,
		Message:   "Offering not found",
		Details:   fmt.Sprintf("offeringId: %s", offeringID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfferingNotAvailableError creates a non-retryable error for offerings not open to interest.
func NewOfferingNotAvailableError(offeringID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOfferingNotAvailable,
		Message:   "Offering is not accepting interest",
		Details:   fmt.Sprintf("offeringId: %s, status: %s", offeringID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOfferingWriteFailedError creates a retryable offering write error.
func NewOfferingWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOfferingWriteFailed,
		Message:   "Database error while writing offering",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompanyRequiredError creates a non-retryable error for founders without a company.
func NewCompanyRequiredError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompanyRequired,
		Message:   "A company profile is required before this operation",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompanyNotFoundError creates a non-retryable missing company error.
func NewCompanyNotFoundError(companyID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompanyNotFound,
		Message:   "Company not found",
		Details:   fmt.Sprintf("companyId: %s", companyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompanyWriteFailedError creates a retryable company write error.
func NewCompanyWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompanyWriteFailed,
		Message:   "Database error while writing company",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateInterestError creates a non-retryable duplicate interest error.
func NewDuplicateInterestError(offeringID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateInterest,
		Message:   "Already expressed interest in this offering",
		Details:   fmt.Sprintf("offeringId: %s", offeringID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterestNotFoundError creates a non-retryable missing interest error.
func NewInterestNotFoundError(interestID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterestNotFound,
		Message:   "Interest not found",
		Details:   fmt.Sprintf("interestId: %s", interestID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInterestWriteFailedError creates a retryable interest write error.
func NewInterestWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInterestWriteFailed,
		Message:   "Database error while writing interest",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAmountBelowMinimumError creates a non-retryable investment amount error.
func NewAmountBelowMinimumError(amount, minimum int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeAmountBelowMinimum,
		Message:   "Amount is below the minimum investment",
		Details:   fmt.Sprintf("amountCents: %d, minimumCents: %d", amount, minimum),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySavedError creates a non-retryable duplicate save error.
func NewAlreadySavedError(offeringID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySavedOffering,
		Message:   "Offering already saved",
		Details:   fmt.Sprintf("offeringId: %s", offeringID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError creates a non-retryable status transition error.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Invalid status value",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Operation not permitted for this user",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityLogFailedError creates a retryable activity log write error.
func NewActivityLogFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityLogFailed,
		Message:   "Database error while writing activity log",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDashboardReadFailedError creates a retryable dashboard aggregation error.
func NewDashboardReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDashboardReadError,
		Message:   "Database error while aggregating dashboard stats",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationWriteFailedError creates a retryable notification write error.
func NewNotificationWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationWriteFailed,
		Message:   "Database error while writing notification",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthenticated,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
// The codes are identical on both sides so process models can reference them directly.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileReadFailed:             "PROFILE_READ_FAILED",
	ErrCodeProfileNotFound:               "PROFILE_NOT_FOUND",
	ErrCodeProfileUpsertFailed:           "PROFILE_UPSERT_FAILED",
	ErrCodeOfferingReadFailed:            "OFFERING_READ_FAILED",
	ErrCodeOfferingNotFound:              "OFFERING_NOT_FOUND",
	ErrCodeOfferingNotAvailable:          "OFFERING_NOT_AVAILABLE",
	ErrCodeOfferingWriteFailed:           "OFFERING_WRITE_FAILED",
	ErrCodeCompanyRequired:               "COMPANY_REQUIRED",
	ErrCodeCompanyNotFound:               "COMPANY_NOT_FOUND",
	ErrCodeCompanyWriteFailed:            "COMPANY_WRITE_FAILED",
	ErrCodeDuplicateInterest:             "DUPLICATE_INTEREST",
	ErrCodeInterestNotFound:              "INTEREST_NOT_FOUND",
	ErrCodeInterestWriteFailed:           "INTEREST_WRITE_FAILED",
	ErrCodeAmountBelowMinimum:            "AMOUNT_BELOW_MINIMUM",
	ErrCodeAlreadySavedOffering:          "ALREADY_SAVED",
	ErrCodeInvalidStatus:                 "INVALID_STATUS",
	ErrCodeForbidden:                     "FORBIDDEN",
	ErrCodeUnauthenticated:               "UNAUTHENTICATED",
	ErrCodeValidationFailed:              "VALIDATION_FAILED",
	ErrCodeActivityLogFailed:             "ACTIVITY_LOG_FAILED",
	ErrCodeDashboardReadError:            "DASHBOARD_READ_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
	ErrCodeNotificationWriteFailed:       "NOTIFICATION_WRITE_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileReadFailed,
		ErrCodeProfileUpsertFailed,
		ErrCodeOfferingReadFailed,
		ErrCodeOfferingWriteFailed,
		ErrCodeCompanyWriteFailed,
		ErrCodeInterestWriteFailed,
		ErrCodeActivityLogFailed,
		ErrCodeDashboardReadError,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeNotificationWriteFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "OFFERING"):
		return "OFFERING"
	case strings.Contains(codeStr, "COMPANY"):
		return "COMPANY"
	case strings.Contains(codeStr, "INTEREST") || strings.Contains(codeStr, "SAVED") || strings.Contains(codeStr, "AMOUNT"):
		return "INTEREST"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "DASHBOARD"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "FORBIDDEN") || strings.Contains(codeStr, "UNAUTHENTICATED") || strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
