package services

import (
	"fmt"

	"dai/internal/statemachine"
)

// ServiceState is the lifecycle state of a service.
type ServiceState = statemachine.State

const (
	StateCreated        ServiceState = "CREATED"
	StateInitializing   ServiceState = "INITIALIZING"
	StateOffline        ServiceState = "OFFLINE"
	StateConnecting     ServiceState = "CONNECTING"
	StateOnline         ServiceState = "ONLINE"
	StateAuthenticating ServiceState = "AUTHENTICATING"
	StateReady          ServiceState = "READY"
	StateError          ServiceState = "ERROR"
)

// ServiceType is derived from the callbacks a service supplies.
type ServiceType int

const (
	// TypeLocal services only initialize.
	TypeLocal ServiceType = iota
	// TypePublic services initialize and connect.
	TypePublic
	// TypePrivate services initialize, connect and authenticate.
	TypePrivate
)

func (t ServiceType) String() string {
	switch t {
	case TypeLocal:
		return "LOCAL"
	case TypePublic:
		return "PUBLIC"
	case TypePrivate:
		return "PRIVATE"
	default:
		return fmt.Sprintf("ServiceType(%d)", int(t))
	}
}

// Lifecycle returns the transition table for the type.
func (t ServiceType) Lifecycle() statemachine.Table {
	switch t {
	case TypePublic:
		return statemachine.Table{
			StateCreated:      {StateInitializing},
			StateInitializing: {StateCreated, StateOffline},
			StateOffline:      {StateConnecting},
			StateConnecting:   {StateOffline, StateReady},
			StateReady:        {StateOffline},
		}
	case TypePrivate:
		return statemachine.Table{
			StateCreated:        {StateInitializing},
			StateInitializing:   {StateCreated, StateOffline},
			StateOffline:        {StateConnecting},
			StateConnecting:     {StateOffline, StateOnline},
			StateOnline:         {StateAuthenticating, StateOffline},
			StateAuthenticating: {StateOnline, StateReady, StateOffline},
			StateReady:          {StateOffline, StateOnline},
		}
	default:
		return statemachine.Table{
			StateCreated:      {StateInitializing},
			StateInitializing: {StateCreated, StateReady},
			StateReady:        {},
		}
	}
}

var stateOrder = []ServiceState{
	StateCreated, StateInitializing, StateOffline, StateConnecting,
	StateOnline, StateAuthenticating, StateReady, StateError,
}

// States returns the states the type's lifecycle uses, in lifecycle order.
func (t ServiceType) States() []ServiceState {
	table := t.Lifecycle()
	out := make([]ServiceState, 0, len(table))
	for _, s := range stateOrder {
		if _, ok := table[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
