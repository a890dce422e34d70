package services

import "fmt"

// BaseService provides a base implementation of the Service interface that
// concrete services embed to avoid reimplementing manager plumbing.
//
//	type TimerService struct {
//	    *services.BaseService
//	}
//
//	func NewTimerService() (*TimerService, error) {
//	    s := &TimerService{}
//	    base, err := services.NewLocalService("timer", []string{"log"}, s.initialize)
//	    if err != nil {
//	        return nil, err
//	    }
//	    s.BaseService = base
//	    return s, nil
//	}
type BaseService struct {
	manager *Manager
}

// NewLocalService creates a base for a service that only initializes.
func NewLocalService(name string, dependencies []string, init InitFunc) (*BaseService, error) {
	return newBaseService(name, dependencies, init, nil, nil)
}

// NewPublicService creates a base for a service that initializes and connects.
func NewPublicService(name string, dependencies []string, init InitFunc, connect ConnectFunc) (*BaseService, error) {
	if connect == nil {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("public service %s requires a connect callback", name)}
	}
	return newBaseService(name, dependencies, init, connect, nil)
}

// NewPrivateService creates a base for a service that initializes, connects
// and authenticates.
func NewPrivateService(name string, dependencies []string, init InitFunc, connect ConnectFunc, auth AuthFunc) (*BaseService, error) {
	if connect == nil || auth == nil {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("private service %s requires connect and auth callbacks", name)}
	}
	return newBaseService(name, dependencies, init, connect, auth)
}

func newBaseService(name string, dependencies []string, init InitFunc, connect ConnectFunc, auth AuthFunc) (*BaseService, error) {
	manager, err := NewManager(name, dependencies, init, connect, auth)
	if err != nil {
		return nil, err
	}
	return &BaseService{manager: manager}, nil
}

// Manager implements Service.
func (b *BaseService) Manager() *Manager {
	if b == nil {
		return nil
	}
	return b.manager
}

// GetName returns the service name.
func (b *BaseService) GetName() string {
	return b.manager.Name()
}

// GetState returns the current lifecycle state.
func (b *BaseService) GetState() ServiceState {
	return b.manager.State()
}

// Get returns an injected dependency. A missing dependency at this point is a
// wiring bug, so it panics instead of returning an error; use
// Manager().Dependency for the checked variant.
func (b *BaseService) Get(name string) Service {
	svc, err := b.manager.Dependency(name)
	if err != nil {
		panic(err)
	}
	return svc
}
