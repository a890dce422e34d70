package provider

import (
	"errors"
	"fmt"
)

// ConfigError reports a role configuration value that cannot be parsed.
type ConfigError struct {
	Role   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for role %s: %s", e.Role, e.Reason)
}

// UnknownServiceError is returned when a role resolves to an implementation
// name that no factory is registered for.
type UnknownServiceError struct {
	Role string
	Name string
}

func (e *UnknownServiceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no implementation available for role %s", e.Role)
	}
	return fmt.Sprintf("no service named %q for role %s", e.Name, e.Role)
}

// RoleMismatchError is returned when an implementation names itself
// differently from the role it was configured for.
type RoleMismatchError struct {
	Role string
	Name string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("role mismatch: service %s was configured for role %s", e.Name, e.Role)
}

// IsRoleMismatch reports whether err is a RoleMismatchError.
func IsRoleMismatch(err error) bool {
	var target *RoleMismatchError
	return errors.As(err, &target)
}

// IsUnknownService reports whether err is an UnknownServiceError.
func IsUnknownService(err error) bool {
	var target *UnknownServiceError
	return errors.As(err, &target)
}
