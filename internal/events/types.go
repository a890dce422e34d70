package events

import (
	"time"
)

// EventType represents the severity of an Event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

// Service lifecycle event reasons
const (
	// ReasonServiceInitialized indicates a service's init callback succeeded.
	ReasonServiceInitialized EventReason = "ServiceInitialized"

	// ReasonServiceConnected indicates a service's connect callback succeeded.
	ReasonServiceConnected EventReason = "ServiceConnected"

	// ReasonServiceDisconnected indicates a connected service lost its connection.
	ReasonServiceDisconnected EventReason = "ServiceDisconnected"

	// ReasonServiceAuthenticated indicates a service's auth callback succeeded.
	ReasonServiceAuthenticated EventReason = "ServiceAuthenticated"

	// ReasonServiceDeauthenticated indicates an authenticated service lost its credentials.
	ReasonServiceDeauthenticated EventReason = "ServiceDeauthenticated"

	// ReasonServiceReady indicates a service reached the final state of its type.
	ReasonServiceReady EventReason = "ServiceReady"

	// ReasonServiceStateChanged is emitted for every effective state transition.
	ReasonServiceStateChanged EventReason = "ServiceStateChanged"
)

// Failure event reasons
const (
	// ReasonServiceInitializeFailed indicates an init callback returned an error.
	ReasonServiceInitializeFailed EventReason = "ServiceInitializeFailed"

	// ReasonServiceConnectFailed indicates a connect callback returned an error.
	ReasonServiceConnectFailed EventReason = "ServiceConnectFailed"

	// ReasonServiceAuthenticateFailed indicates an auth callback returned an
	// error. The service stays ONLINE.
	ReasonServiceAuthenticateFailed EventReason = "ServiceAuthenticateFailed"
)

// EventData holds contextual information for event message templating.
type EventData struct {
	// Name is the name of the service involved in the event.
	Name string

	// ServiceType is LOCAL, PUBLIC or PRIVATE.
	ServiceType string

	// From and To are the states of a transition.
	From string
	To   string

	// Stage is the lifecycle stage of a failure event.
	Stage string

	// Error contains error information for failure events.
	Error string

	// Arguments contains additional key-value data for the event.
	Arguments map[string]interface{}
}

// Event is a message published on a Bus.
type Event struct {
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Reason    EventReason `json:"reason,omitempty"`
	Type      EventType   `json:"type,omitempty"`
	Service   string      `json:"service,omitempty"`
	Message   string      `json:"message,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// LifecycleTopic returns the bus topic lifecycle events for reason are
// published on.
func LifecycleTopic(reason EventReason) string {
	return "lifecycle/" + string(reason)
}

// getEventType returns the appropriate EventType for a given EventReason.
func getEventType(reason EventReason) EventType {
	switch reason {
	case ReasonServiceDisconnected,
		ReasonServiceDeauthenticated,
		ReasonServiceInitializeFailed,
		ReasonServiceConnectFailed,
		ReasonServiceAuthenticateFailed:
		return EventTypeWarning
	default:
		return EventTypeNormal
	}
}
