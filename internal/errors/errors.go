// Package errors defines custom error types for the catalog pipeline.
// CatalogError carries a type classification so handlers can map failures to
// HTTP responses without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// CatalogError represents errors that occur while querying or storing movies
type CatalogError struct {
	Type    string
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeNetworkFailure       = "NETWORK_FAILURE"
	ErrorTypeParseFailure         = "PARSE_FAILURE"
	ErrorTypeLookupMiss           = "LOOKUP_MISS"
	ErrorTypeDuplicateRecord      = "DUPLICATE_RECORD"
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeAPIKeyMissing        = "API_KEY_MISSING"
	ErrorTypeTimeout              = "TIMEOUT"
)

// ErrEmptyDescription marks a dataset whose description is missing or blank.
var ErrEmptyDescription = NewParseError("empty description", nil)

// NewCatalogError creates a new CatalogError
func NewCatalogError(errorType, message string, cause error) *CatalogError {
	return &CatalogError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewNetworkError creates an upstream failure error
func NewNetworkError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeNetworkFailure, message, cause)
}

// NewParseError creates a description decoding error
func NewParseError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeParseFailure, message, cause)
}

// NewLookupMissError creates an error for a lookup that matched nothing
func NewLookupMissError(what string) *CatalogError {
	return NewCatalogError(ErrorTypeLookupMiss, fmt.Sprintf("no match for %s", what), nil)
}

// NewDuplicateError creates a duplicate record error
func NewDuplicateError(title, openDate string) *CatalogError {
	return NewCatalogError(ErrorTypeDuplicateRecord, fmt.Sprintf("movie already registered: %s (%s)", title, openDate), nil)
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewAPIKeyMissingError creates an API key missing error
func NewAPIKeyMissingError(service string) *CatalogError {
	return NewCatalogError(ErrorTypeAPIKeyMissing, fmt.Sprintf("API key missing for %s", service), nil)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeTimeout, fmt.Sprintf("operation timeout: %s", operation), cause)
}

// IsType reports whether err wraps a CatalogError of the given type.
func IsType(err error, errorType string) bool {
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		return ce.Type == errorType
	}
	return false
}

// IsUpstreamFailure reports whether err came from a failed upstream call.
func IsUpstreamFailure(err error) bool {
	return IsType(err, ErrorTypeNetworkFailure) || IsType(err, ErrorTypeTimeout)
}
