package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// ServiceError wraps a failure from the OCI service or its SDK with the
// operation that failed and, where the failure is recognizable, a suggestion.
func ServiceError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("OCI error during %s", operation),
		Suggestion: ServiceSuggestion(err),
		Err:        err,
	}
}

// ServiceSuggestion returns a helpful suggestion for common OCI failures.
func ServiceSuggestion(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()

	if strings.Contains(errStr, "NotAuthenticated") {
		return "Check your API key configuration: run 'oci setup config' or verify the profile in ~/.oci/config"
	}
	if strings.Contains(errStr, "NotAuthorizedOrNotFound") {
		return "Verify the OCID is correct and your group has a policy granting access to the resource"
	}
	if strings.Contains(errStr, "did not find a proper configuration") {
		return "Check that the profile exists in ~/.oci/config, or set OCI_CONFIG_PROFILE to a valid profile name"
	}
	if strings.Contains(errStr, "instance principal") || strings.Contains(errStr, "169.254.169.254") {
		return "Instance principal authentication only works on an OCI compute instance that belongs to a dynamic group"
	}
	if strings.Contains(errStr, "TooManyRequests") {
		return "OCI rate limit exceeded. Wait a moment and try again"
	}
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and the region in your profile"
	}

	return ""
}
