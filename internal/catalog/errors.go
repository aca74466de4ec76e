package catalog

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeOutOfRange indicates a page index outside the catalog
	ErrTypeOutOfRange
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeOutOfRange:
		return "Out Of Range"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// CatalogError represents a failed page catalog request
type CatalogError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	Path       string    // Request path (e.g. "/pages/3")
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s %s", e.Type, e.Path, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// classifyNetworkError narrows a transport error down to a more specific type
func classifyNetworkError(err error) ErrorType {
	if os.IsTimeout(err) {
		return ErrTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrTypeDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return ErrTypeConnectionRefused
	}

	return ErrTypeNetwork
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(path, message string, err error) *CatalogError {
	return &CatalogError{
		Type:    classifyNetworkError(err),
		Message: message,
		Path:    path,
		Err:     err,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(path string, statusCode int) *CatalogError {
	return &CatalogError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		Path:       path,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(path, message string, err error) *CatalogError {
	return &CatalogError{
		Type:    ErrTypeParse,
		Message: message,
		Path:    path,
		Err:     err,
	}
}

// NewOutOfRangeError creates an error for an index outside the catalog
func NewOutOfRangeError(index, count int) *CatalogError {
	return &CatalogError{
		Type:    ErrTypeOutOfRange,
		Message: fmt.Sprintf("page %d outside catalog of %d pages", index, count),
	}
}

func errorType(err error) (ErrorType, bool) {
	var catErr *CatalogError
	if errors.As(err, &catErr) {
		return catErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsOutOfRange checks if an error reports an index outside the catalog
func IsOutOfRange(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeOutOfRange
}

// ShortMessage returns a concise, user-facing description of a catalog error.
// Only the CLI prints these; the viewer never shows errors on screen.
func ShortMessage(err error) string {
	var catErr *CatalogError
	if !errors.As(err, &catErr) {
		return err.Error()
	}

	switch catErr.Type {
	case ErrTypeTimeout:
		return "Presentation server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Presentation server refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve presentation server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d) for %s", catErr.StatusCode, catErr.Path)
	case ErrTypeParse:
		return fmt.Sprintf("Malformed response for %s", catErr.Path)
	default:
		return catErr.Message
	}
}
