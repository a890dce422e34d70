package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"dai/internal/provider"
	"dai/pkg/logging"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// addErr appends err when it is a ValidationError; other errors are recorded
// under field with their message.
func (ve *ValidationErrors) addErr(field string, err error) {
	if err == nil {
		return
	}
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
		return
	}
	ve.Add(field, err.Error())
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateHTTPURL checks that value is an absolute http or https URL.
func ValidateHTTPURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http(s) URL",
		}
	}
	return nil
}

// ValidateAddress checks that value is a 0x-prefixed 20 byte hex address.
func ValidateAddress(field, value string) error {
	if !addressPattern.MatchString(value) {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be 0x followed by 40 hex characters",
		}
	}
	return nil
}

// Validate checks the whole configuration and returns every problem found.
func (c Config) Validate() error {
	var errs ValidationErrors

	errs.addErr("preset", ValidateOneOf("preset", c.Preset, KnownPresets))

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", err.Error(), c.LogLevel)
	}

	if c.Preset == PresetHTTP || c.URL != "" {
		errs.addErr("url", ValidateHTTPURL("url", c.URL))
	}

	seen := make(map[string]bool, len(c.Accounts))
	for i, acc := range c.Accounts {
		field := fmt.Sprintf("accounts[%d]", i)
		errs.addErr(field+".name", ValidateRequired(field+".name", acc.Name, "account"))
		errs.addErr(field+".address", ValidateAddress(field+".address", acc.Address))
		if acc.Name != "" && seen[acc.Name] {
			errs.Add(field+".name", fmt.Sprintf("duplicate account name %q", acc.Name), acc.Name)
		}
		seen[acc.Name] = true
	}

	for i, name := range c.Plugins {
		errs.addErr(fmt.Sprintf("plugins[%d]", i), ValidateRequired(fmt.Sprintf("plugins[%d]", i), name, "plugin"))
	}

	if _, err := provider.ParseAll(c.Services); err != nil {
		errs.Add("services", err.Error())
	}

	if c.Metrics.Enabled {
		errs.addErr("metrics.address", ValidateRequired("metrics.address", c.Metrics.Address, "metrics"))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
