package models

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Authentication errors
	ErrorCodeMissingAuthToken     ErrorCode = "MISSING_AUTH_TOKEN"
	ErrorCodeCorruptedAuthToken   ErrorCode = "CORRUPTED_AUTH_TOKEN"
	ErrorCodeInvalidAuthToken     ErrorCode = "INVALID_AUTH_TOKEN"
	ErrorCodeInvalidExchangeToken ErrorCode = "INVALID_EXCHANGE_TOKEN"
	ErrorCodeOriginRejected       ErrorCode = "ORIGIN_REJECTED"

	// Rate limiting errors
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Validation errors
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidAddress ErrorCode = "INVALID_ADDRESS"
	ErrorCodeInvalidSymbols ErrorCode = "INVALID_SYMBOLS"
	ErrorCodeMalformedJSON  ErrorCode = "MALFORMED_JSON"

	// Upstream errors
	ErrorCodeMalformedUpstream   ErrorCode = "MALFORMED_UPSTREAM"
	ErrorCodeBadUpstreamData     ErrorCode = "BAD_UPSTREAM_DATA"
	ErrorCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Internal errors
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// HTTPStatusCode returns the appropriate HTTP status code for each error type
func (e ErrorCode) HTTPStatusCode() int {
	switch e {
	case ErrorCodeMissingAuthToken, ErrorCodeCorruptedAuthToken,
		ErrorCodeInvalidAuthToken, ErrorCodeInvalidExchangeToken,
		ErrorCodeOriginRejected:
		return http.StatusUnauthorized
	case ErrorCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrorCodeInvalidRequest, ErrorCodeInvalidAddress,
		ErrorCodeInvalidSymbols, ErrorCodeMalformedJSON:
		return http.StatusBadRequest
	case ErrorCodeMalformedUpstream, ErrorCodeBadUpstreamData,
		ErrorCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrorCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse creates a new error response with timestamp
func NewErrorResponse(code ErrorCode, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC(),
	}
}

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode
	Message    string
	Details    string
	Cause      error
	Context    map[string]interface{}
	StatusCode int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: code.HTTPStatusCode(),
		Context:    make(map[string]interface{}),
	}
}

// NewAppErrorWithCause creates a new application error with underlying cause
func NewAppErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: code.HTTPStatusCode(),
		Context:    make(map[string]interface{}),
	}
}

// NewAppErrorWithDetails creates a new application error with details
func NewAppErrorWithDetails(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: code.HTTPStatusCode(),
		Context:    make(map[string]interface{}),
	}
}

// HandleError converts an error to the terminal JSON response for a request.
// Every failure in the pipeline funnels through here exactly once; upstream
// error detail never reaches the client beyond code and message.
func HandleError(c *gin.Context, err error, logger interface{}) {
	var appErr *AppError

	if appError, ok := err.(*AppError); ok {
		appErr = appError
	} else {
		appErr = NewAppErrorWithCause(ErrorCodeInternalError, "Internal server error", err)
	}

	appErr.WithContext("method", c.Request.Method).
		WithContext("path", c.Request.URL.Path).
		WithContext("client_ip", c.ClientIP())

	if l, ok := logger.(interface {
		WithContext(context.Context) interface {
			Error(string, ...zap.Field)
			Warn(string, ...zap.Field)
		}
	}); ok {
		contextLogger := l.WithContext(c.Request.Context())

		logFields := []zap.Field{
			zap.String("error_code", string(appErr.Code)),
			zap.String("error_message", appErr.Message),
			zap.Any("error_context", appErr.Context),
		}

		if appErr.Cause != nil {
			logFields = append(logFields, zap.Error(appErr.Cause))
		}

		if appErr.StatusCode >= 500 {
			contextLogger.Error("Application error", logFields...)
		} else {
			contextLogger.Warn("Client error", logFields...)
		}
	}

	c.JSON(appErr.StatusCode, NewErrorResponse(appErr.Code, appErr.Message, appErr.Details))
}

// Common error constructors for specific scenarios

// NewValidationError creates a validation error
func NewValidationError(message, details string) *AppError {
	return NewAppErrorWithDetails(ErrorCodeInvalidRequest, message, details)
}

// NewUpstreamError creates an upstream transport error
func NewUpstreamError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeUpstreamUnavailable, message, cause)
}

// NewMalformedUpstreamError creates an error for a non-success upstream envelope
func NewMalformedUpstreamError(message string) *AppError {
	return NewAppError(ErrorCodeMalformedUpstream, message)
}

// NewBadUpstreamDataError creates an error for an unparsable upstream payload
func NewBadUpstreamDataError(message string) *AppError {
	return NewAppError(ErrorCodeBadUpstreamData, message)
}
