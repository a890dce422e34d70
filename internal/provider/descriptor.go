package provider

import (
	"fmt"

	"dai/internal/services"
)

// Factory builds a new service instance.
type Factory func() (services.Service, error)

// Descriptor says which implementation fills a role. It is one of
// RoleDefault, ByName, ByFactory or ByInstance.
type Descriptor interface {
	describe() string
}

// RoleDefault selects the role's default implementation when true and its
// disabled implementation when false.
type RoleDefault bool

// ByName selects an implementation registered in Resolver.Services.
type ByName string

// ByFactory builds the implementation with the given function.
type ByFactory Factory

// ByInstance uses an already constructed service.
type ByInstance struct {
	Service services.Service
}

func (d RoleDefault) describe() string {
	if d {
		return "default"
	}
	return "disabled"
}

func (d ByName) describe() string     { return fmt.Sprintf("service %q", string(d)) }
func (d ByFactory) describe() string  { return "factory" }
func (d ByInstance) describe() string { return "instance" }

// ServiceConfig is the normalized configuration of one role.
type ServiceConfig struct {
	Descriptor Descriptor
	Settings   services.Settings
}

// String implements fmt.Stringer for log messages.
func (c ServiceConfig) String() string {
	if c.Descriptor == nil {
		return "<unset>"
	}
	return c.Descriptor.describe()
}

// Enabled returns the configuration for the role's default implementation.
func Enabled(settings services.Settings) ServiceConfig {
	return ServiceConfig{Descriptor: RoleDefault(true), Settings: settings}
}

// Disabled returns the configuration for the role's disabled implementation.
func Disabled() ServiceConfig {
	return ServiceConfig{Descriptor: RoleDefault(false)}
}
