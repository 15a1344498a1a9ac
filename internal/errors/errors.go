package errors

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrorTypeNetwork ErrorType = iota
	ErrorTypeAuth
	ErrorTypePermission
	ErrorTypeNotFound
	ErrorTypeRateLimit
	ErrorTypeBackend
	ErrorTypeCache
	ErrorTypeValidation
	ErrorTypeUnknown
)

// SouqError represents a structured error with context and retry information
type SouqError struct {
	Type       ErrorType
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter time.Duration
	Context    map[string]string
}

// Error implements the error interface
func (e *SouqError) Error() string {
	if len(e.Context) > 0 {
		var parts []string
		for k, v := range e.Context {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SouqError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error can be retried
func (e *SouqError) IsRetryable() bool {
	return e.Retryable
}

// GetRetryAfter returns the duration to wait before retrying
func (e *SouqError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return e.RetryAfter
	}
	// Default retry backoff based on error type
	switch e.Type {
	case ErrorTypeNetwork:
		return 2 * time.Second
	case ErrorTypeRateLimit:
		return 30 * time.Second
	case ErrorTypeBackend:
		return 5 * time.Second
	default:
		return 1 * time.Second
	}
}

// WrapBackendError wraps a storefront backend error with context and
// classification. The resource arguments identify what was being fetched.
func WrapBackendError(err error, operation, resource, id string) *SouqError {
	if err == nil {
		return nil
	}

	context := map[string]string{
		"operation": operation,
		"resource":  resource,
	}
	if id != "" {
		context["id"] = id
	}

	// Analyze the error to determine type and message
	errorText := err.Error()
	lowerError := strings.ToLower(errorText)

	switch {
	case strings.Contains(lowerError, "not found") || strings.Contains(lowerError, "status 404"):
		return &SouqError{
			Type:       ErrorTypeNotFound,
			Message:    determineNotFoundMessage(resource, id),
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}

	case strings.Contains(lowerError, "status 401") || strings.Contains(lowerError, "unauthorized") ||
		strings.Contains(lowerError, "session expired"):
		return &SouqError{
			Type:       ErrorTypeAuth,
			Message:    "Authentication failed - sign in again with 'souq login'",
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}

	case strings.Contains(lowerError, "status 403") || strings.Contains(lowerError, "forbidden"):
		return &SouqError{
			Type:       ErrorTypePermission,
			Message:    fmt.Sprintf("Access denied to %s - check your account permissions", resource),
			Underlying: err,
			Retryable:  false,
			Context:    context,
		}

	case strings.Contains(lowerError, "status 429") || strings.Contains(lowerError, "rate limit") ||
		strings.Contains(lowerError, "too many requests"):
		return &SouqError{
			Type:       ErrorTypeRateLimit,
			Message:    "Backend rate limit exceeded - retrying with backoff",
			Underlying: err,
			Retryable:  true,
			RetryAfter: 30 * time.Second,
			Context:    context,
		}

	case strings.Contains(lowerError, "timeout") || strings.Contains(lowerError, "deadline") ||
		isTimeoutError(err):
		return &SouqError{
			Type:       ErrorTypeNetwork,
			Message:    "Backend request timed out - retrying",
			Underlying: err,
			Retryable:  true,
			RetryAfter: 5 * time.Second,
			Context:    context,
		}

	case strings.Contains(lowerError, "connection") || strings.Contains(lowerError, "network") ||
		strings.Contains(lowerError, "no such host"):
		return &SouqError{
			Type:       ErrorTypeNetwork,
			Message:    "Network error reaching the backend - retrying",
			Underlying: err,
			Retryable:  true,
			RetryAfter: 2 * time.Second,
			Context:    context,
		}

	case strings.Contains(lowerError, "status 5"):
		return &SouqError{
			Type:       ErrorTypeBackend,
			Message:    fmt.Sprintf("Backend request failed: %s", cleanErrorOutput(errorText)),
			Underlying: err,
			Retryable:  true,
			Context:    context,
		}

	default:
		return &SouqError{
			Type:       ErrorTypeUnknown,
			Message:    fmt.Sprintf("Backend operation failed: %s", cleanErrorOutput(errorText)),
			Underlying: err,
			Retryable:  true,
			Context:    context,
		}
	}
}

// WrapCacheError wraps cache-related errors
func WrapCacheError(err error, operation string) *SouqError {
	if err == nil {
		return nil
	}

	return &SouqError{
		Type:       ErrorTypeCache,
		Message:    fmt.Sprintf("Cache %s failed: %s", operation, err.Error()),
		Underlying: err,
		Retryable:  false,
		Context:    map[string]string{"operation": operation},
	}
}

// WrapValidationError wraps validation errors
func WrapValidationError(err error, input string) *SouqError {
	if err == nil {
		return nil
	}

	return &SouqError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("Invalid input '%s': %s", input, err.Error()),
		Underlying: err,
		Retryable:  false,
		Context:    map[string]string{"input": input},
	}
}

// determineNotFoundMessage creates specific not found messages
func determineNotFoundMessage(resource, id string) string {
	if id != "" {
		return fmt.Sprintf("%s %q not found", resource, id)
	}
	return fmt.Sprintf("no %s found", resource)
}

// cleanErrorOutput cleans up error messages for better user experience
func cleanErrorOutput(errorText string) string {
	cleaned := strings.TrimSpace(errorText)

	if strings.HasPrefix(cleaned, "ERROR: ") {
		cleaned = cleaned[7:]
	}

	lines := strings.Split(cleaned, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "WARNING") {
			cleanLines = append(cleanLines, line)
		}
	}

	if len(cleanLines) > 0 {
		return cleanLines[0] // Return first meaningful line
	}

	return cleaned
}

// isTimeoutError checks for net.Error timeouts
func isTimeoutError(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

// UserFriendlyMessage returns a user-friendly error message
func (e *SouqError) UserFriendlyMessage() string {
	switch e.Type {
	case ErrorTypeNotFound:
		return e.Message + " - it may have been removed by the seller"
	case ErrorTypeAuth:
		return e.Message
	case ErrorTypePermission:
		return e.Message + " - contact support if this persists"
	case ErrorTypeRateLimit:
		return e.Message + " - try again in a few moments"
	case ErrorTypeNetwork:
		return e.Message + " - check your internet connection"
	case ErrorTypeValidation:
		return e.Message + " - see 'souq --help' for accepted formats"
	default:
		return e.Message
	}
}
