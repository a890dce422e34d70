package builtin

import (
	"context"
	"fmt"

	"dai/internal/events"
	"dai/internal/services"
)

// Role and implementation name of the event service.
const (
	EventRole = "event"
	EventName = "Event"
)

// EventService is the publish/subscribe hub services use to talk to each
// other without declaring direct dependencies.
type EventService struct {
	*services.BaseService

	bus *events.Bus
}

// NewEventService creates the event service.
func NewEventService() (*EventService, error) {
	s := &EventService{bus: events.NewBus(events.DefaultHistorySize)}
	base, err := services.NewLocalService(EventRole, []string{LogRole}, s.initialize)
	if err != nil {
		return nil, err
	}
	s.BaseService = base
	return s, nil
}

// initialize applies the historySize setting to the existing bus, so
// subscriptions and events recorded before initialization are kept.
func (s *EventService) initialize(_ context.Context, settings services.Settings) error {
	raw, ok := settings["historySize"]
	if !ok || raw == nil {
		return nil
	}
	size, ok := raw.(int)
	if !ok || size <= 0 {
		return fmt.Errorf("historySize must be a positive integer, got %v", raw)
	}
	s.bus.SetHistorySize(size)
	return nil
}

// Bus returns the underlying bus.
func (s *EventService) Bus() *events.Bus {
	return s.bus
}

// On subscribes handler to topic. The pattern may be "*" or end in "/*".
func (s *EventService) On(topic string, handler events.Handler) (unsubscribe func()) {
	return s.Bus().Subscribe(topic, handler)
}

// Emit publishes payload on topic.
func (s *EventService) Emit(topic string, payload interface{}) {
	s.Get(LogRole).(*LogService).Debug("Emitting %s", topic)
	s.Bus().Emit(topic, payload)
}

// Publish implements events.Sink so lifecycle events can be routed here.
func (s *EventService) Publish(e events.Event) {
	s.Bus().Publish(e)
}

// Events returns the remembered events, oldest first.
func (s *EventService) Events() []events.Event {
	return s.Bus().History()
}
