package services

import (
	"context"
)

// Settings is the free-form configuration handed to a service's init
// callback. It is usually decoded from YAML.
type Settings map[string]interface{}

// InitFunc initializes a service. It runs at most once per clean lifecycle
// pass and receives the settings resolved for the service's role.
type InitFunc func(ctx context.Context, settings Settings) error

// ConnectFunc connects a service to whatever remote system it fronts. The
// disconnect callback may be invoked later, from any goroutine, when the
// service detects that the connection was lost.
type ConnectFunc func(ctx context.Context, disconnect func()) error

// AuthFunc authenticates a connected service. The deauthenticate callback may
// be invoked later when the service detects that authentication was lost.
type AuthFunc func(ctx context.Context, deauthenticate func()) error

// Service is the capability every container-managed component implements:
// it exposes the Manager that owns its lifecycle and dependencies.
type Service interface {
	Manager() *Manager
}

// Stage names a lifecycle stage.
type Stage string

const (
	StageInitialize   Stage = "initialize"
	StageConnect      Stage = "connect"
	StageAuthenticate Stage = "authenticate"
)

// ErrorHandler observes a failed lifecycle callback. It is the only way to
// notice a failed authentication, which Authenticate does not return.
type ErrorHandler func(stage Stage, err error)

// isValidService reports whether svc can be registered or injected.
func isValidService(svc Service) bool {
	return svc != nil && svc.Manager() != nil
}
