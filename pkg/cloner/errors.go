package cloner

import (
	"fmt"

	"web-cloner-go/pkg/utils"
)

// ErrorType categorizes different types of clone service errors
type ErrorType string

const (
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeInvalidURL         ErrorType = "invalid_url"
	ErrorTypeInvalidResponse    ErrorType = "invalid_response"
	ErrorTypeAPI                ErrorType = "api_error"
	ErrorTypeCancelled          ErrorType = "cancelled"
	ErrorTypePollLimit          ErrorType = "poll_limit"
)

// ClonerError represents a structured error from the clone service client
type ClonerError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *ClonerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ClonerError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error is likely to succeed on retry.
// Nothing in this module retries automatically; callers use it to word hints.
func (e *ClonerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeServiceUnavailable, ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// UserMessage returns a user-friendly error message
func (e *ClonerError) UserMessage() string {
	switch e.Type {
	case ErrorTypeServiceUnavailable:
		return "Clone service unavailable. Please check if the service is running."
	case ErrorTypeTimeout:
		return "The clone service took too long to respond."
	case ErrorTypeNetwork:
		return "Network error while talking to the clone service. Please check your connection and try again."
	case ErrorTypeInvalidURL:
		return utils.InvalidURLMessage
	case ErrorTypeInvalidResponse:
		return "Received invalid response from clone service. Please try again."
	case ErrorTypeCancelled:
		return "Cloning was cancelled."
	case ErrorTypePollLimit:
		return "Gave up waiting for the clone job to finish."
	default:
		return e.Message
	}
}

func newServiceUnavailableError(cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeServiceUnavailable,
		Message: "Service not available",
		Cause:   cause,
	}
}

func newTimeoutError(cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeTimeout,
		Message: "Request timed out",
		Cause:   cause,
	}
}

func newNetworkError(cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeNetwork,
		Message: "Network error",
		Cause:   cause,
	}
}

func newInvalidURLError(cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeInvalidURL,
		Message: "URL rejected before submission",
		Cause:   cause,
	}
}

func newInvalidResponseError(message string, cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}

func newAPIError(statusCode int, message string) *ClonerError {
	return &ClonerError{
		Type:       ErrorTypeAPI,
		Message:    message,
		StatusCode: statusCode,
	}
}

func newCancelledError(cause error) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypeCancelled,
		Message: "Operation cancelled",
		Cause:   cause,
	}
}

func newPollLimitError(attempts int) *ClonerError {
	return &ClonerError{
		Type:    ErrorTypePollLimit,
		Message: fmt.Sprintf("job still running after %d polls", attempts),
	}
}
