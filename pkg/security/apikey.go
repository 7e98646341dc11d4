// Package security validates and masks upstream API credentials.
package security

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	hexKey         = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)
)

// APIKeyValidator provides validation and handling of API keys
type APIKeyValidator struct {
	minLength int
	maxLength int
}

// NewAPIKeyValidator creates a new API key validator with reasonable defaults
func NewAPIKeyValidator() *APIKeyValidator {
	return &APIKeyValidator{
		minLength: 8,
		maxLength: 128,
	}
}

// SanitizeAPIKey trims whitespace and strips characters that are unsafe in
// headers or query strings.
func (v *APIKeyValidator) SanitizeAPIKey(apiKey string) string {
	return unsafeKeyChars.ReplaceAllString(strings.TrimSpace(apiKey), "")
}

// ValidateAPIKey checks generic length and charset constraints
func (v *APIKeyValidator) ValidateAPIKey(apiKey string) bool {
	if len(apiKey) < v.minLength || len(apiKey) > v.maxLength {
		return false
	}
	return !unsafeKeyChars.MatchString(apiKey)
}

// IsValidDataverseKey reports whether apiKey looks like a Dataverse API token (a UUID).
func (v *APIKeyValidator) IsValidDataverseKey(apiKey string) bool {
	if !v.ValidateAPIKey(apiKey) {
		return false
	}
	_, err := uuid.Parse(apiKey)
	return err == nil
}

// IsValidKOBISKey reports whether apiKey looks like a KOBIS open API key (32 hex chars).
func (v *APIKeyValidator) IsValidKOBISKey(apiKey string) bool {
	return hexKey.MatchString(apiKey)
}

// MaskAPIKey creates a masked version for logging
func (v *APIKeyValidator) MaskAPIKey(apiKey string) string {
	if len(apiKey) == 0 {
		return "[empty]"
	}
	if len(apiKey) <= 8 {
		return "[***]"
	}
	return apiKey[:3] + "..." + apiKey[len(apiKey)-3:]
}
