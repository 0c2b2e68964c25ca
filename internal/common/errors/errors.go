// Package errors provides standardized error handling for the dashboard API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Insight configuration load failures. All three are recoverable locally:
// the board always has the embedded fallback catalog.
const (
	ErrCodeConfigTransportFailed ErrorCode = "CONFIG_TRANSPORT_FAILED"
	ErrCodeConfigParseFailed     ErrorCode = "CONFIG_PARSE_FAILED"
	ErrCodeConfigShapeInvalid    ErrorCode = "CONFIG_SHAPE_INVALID"
)

// Board lookup failures.
const (
	ErrCodeCardNotFound   ErrorCode = "CARD_NOT_FOUND"
	ErrCodeActionNotFound ErrorCode = "ACTION_NOT_FOUND"
)

// Query assistant failures.
const (
	ErrCodeAssistantTimeout     ErrorCode = "ASSISTANT_TIMEOUT"
	ErrCodeAssistantQueryFailed ErrorCode = "ASSISTANT_QUERY_FAILED"
)

// Analytics data access failures.
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

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
// 2. HTTP Integration
// ==========================

var httpStatus = map[ErrorCode]int{
	ErrCodeConfigTransportFailed:    http.StatusBadGateway,
	ErrCodeConfigParseFailed:        http.StatusUnprocessableEntity,
	ErrCodeConfigShapeInvalid:       http.StatusUnprocessableEntity,
	ErrCodeCardNotFound:             http.StatusNotFound,
	ErrCodeActionNotFound:           http.StatusNotFound,
	ErrCodeAssistantTimeout:         http.StatusGatewayTimeout,
	ErrCodeAssistantQueryFailed:     http.StatusBadGateway,
	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryExecutionFailed:     http.StatusInternalServerError,
	ErrCodeInternal:                 http.StatusInternalServerError,
}

// HTTPStatusFor maps an error code to the response status the API returns.
// Unknown codes map to 500.
func HTTPStatusFor(code ErrorCode) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ==========================
// 3. Error Constructors
// ==========================

// NewConfigTransportError reports an unreachable or non-success configuration
// resource. Retryable: the next scheduled refresh may succeed.
func NewConfigTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigTransportFailed,
		Message:   "Insight configuration resource unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigParseError reports configuration content that is not well-formed JSON.
func NewConfigParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigParseFailed,
		Message:   "Insight configuration is not well-formed JSON",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigShapeError reports a parsed document missing required top-level fields.
func NewConfigShapeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigShapeInvalid,
		Message:   "Insight configuration failed shape validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCardNotFoundError reports a card id absent from the rendered document.
func NewCardNotFoundError(cardID int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCardNotFound,
		Message:   "Insight card not found",
		Details:   fmt.Sprintf("cardId: %d", cardID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewActionNotFoundError reports an action key absent from the card.
func NewActionNotFoundError(cardID int, actionKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActionNotFound,
		Message:   "Action not found on card",
		Details:   fmt.Sprintf("cardId: %d, actionKey: %s", cardID, actionKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantTimeoutError creates a retryable assistant timeout error.
func NewAssistantTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssistantTimeout,
		Message:   "Query assistant timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantQueryFailedError creates a retryable assistant failure.
func NewAssistantQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssistantQueryFailed,
		Message:   "Query assistant request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionError creates a retryable database connection error.
func NewDatabaseConnectionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError creates a non-retryable query error.
func NewQueryExecutionError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Analytics query failed",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Helpers
// ==========================

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}
