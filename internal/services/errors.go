package services

import (
	"errors"
	"fmt"
)

// InvalidArgumentError reports a malformed constructor argument.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// InvalidServiceError is returned when something that is not a usable
// service is registered or injected.
type InvalidServiceError struct {
	Name string
}

func (e *InvalidServiceError) Error() string {
	if e.Name == "" {
		return "invalid service: it must be non-nil and expose a manager"
	}
	return fmt.Sprintf("invalid service for %s: it must be non-nil and expose a manager", e.Name)
}

// UnknownDependencyError is returned when a service is asked about a
// dependency it never declared.
type UnknownDependencyError struct {
	Service    string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("service %s has no dependency named %s", e.Service, e.Dependency)
}

// DependencyNotResolvedError is returned when a declared dependency has not
// been injected yet.
type DependencyNotResolvedError struct {
	Service    string
	Dependency string
}

func (e *DependencyNotResolvedError) Error() string {
	return fmt.Sprintf("dependency %s of service %s has not been resolved", e.Dependency, e.Service)
}

// ServiceNotFoundError is returned by container lookups and by dependency
// injection when a name is not registered.
type ServiceNotFoundError struct {
	Name string
	// RequiredBy is set when the lookup was made on behalf of a dependent.
	RequiredBy string
}

func (e *ServiceNotFoundError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("service %s not found (required by %s)", e.Name, e.RequiredBy)
	}
	return fmt.Sprintf("service %s not found", e.Name)
}

// ExtractedServiceError is a ServiceNotFoundError for names that moved into
// a separate plugin.
type ExtractedServiceError struct {
	Name   string
	Plugin string
}

func (e *ExtractedServiceError) Error() string {
	return fmt.Sprintf("the %s service has been moved into the %s plugin; add the plugin to your configuration", e.Name, e.Plugin)
}

// ServiceAlreadyRegisteredError is returned when a different instance is
// registered under a name that is already taken.
type ServiceAlreadyRegisteredError struct {
	Name string
}

func (e *ServiceAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("service %s already registered", e.Name)
}

// IsServiceNotFound reports whether err is a ServiceNotFoundError or an
// ExtractedServiceError.
func IsServiceNotFound(err error) bool {
	var notFound *ServiceNotFoundError
	var extracted *ExtractedServiceError
	return errors.As(err, &notFound) || errors.As(err, &extracted)
}

// IsAlreadyRegistered reports whether err is a ServiceAlreadyRegisteredError.
func IsAlreadyRegistered(err error) bool {
	var target *ServiceAlreadyRegisteredError
	return errors.As(err, &target)
}

// IsInvalidService reports whether err is an InvalidServiceError.
func IsInvalidService(err error) bool {
	var target *InvalidServiceError
	return errors.As(err, &target)
}

// IsUnknownDependency reports whether err is an UnknownDependencyError.
func IsUnknownDependency(err error) bool {
	var target *UnknownDependencyError
	return errors.As(err, &target)
}

// IsDependencyNotResolved reports whether err is a DependencyNotResolvedError.
func IsDependencyNotResolved(err error) bool {
	var target *DependencyNotResolvedError
	return errors.As(err, &target)
}
