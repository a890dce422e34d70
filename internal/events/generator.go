package events

import (
	"fmt"

	"dai/internal/services"
	"dai/pkg/logging"
)

// EventGenerator renders lifecycle events and publishes them to a Sink.
type EventGenerator struct {
	sink      Sink
	templates *MessageTemplateEngine
}

// NewEventGenerator creates a generator publishing to sink.
func NewEventGenerator(sink Sink) *EventGenerator {
	return &EventGenerator{
		sink:      sink,
		templates: NewMessageTemplateEngine(),
	}
}

// ServiceEvent publishes an event about the named service.
func (g *EventGenerator) ServiceEvent(name string, reason EventReason, data EventData) {
	data.Name = name

	message := g.templates.Render(reason, data)
	eventType := getEventType(reason)

	logging.Debug("Events", "Generating service event: reason=%s, message=%s, type=%s",
		string(reason), message, eventType)

	g.sink.Publish(Event{
		Topic:   LifecycleTopic(reason),
		Reason:  reason,
		Type:    eventType,
		Service: name,
		Message: message,
		Payload: data,
	})
}

// SetTemplate allows customizing the message template for a specific event reason.
func (g *EventGenerator) SetTemplate(reason EventReason, template string) error {
	return g.templates.SetTemplate(reason, template)
}

// GetTemplate returns the template for a specific event reason.
func (g *EventGenerator) GetTemplate(reason EventReason) (string, bool) {
	return g.templates.GetTemplate(reason)
}

// Watch registers lifecycle hooks on every service of c, in dependency
// order, so that each lifecycle edge is published as an event. Services
// registered afterwards are not watched.
func (g *EventGenerator) Watch(c *services.Container) error {
	err := c.Walk(func(name string, svc services.Service) {
		g.watchManager(name, svc.Manager())
	})
	if err != nil {
		return fmt.Errorf("failed to watch container: %w", err)
	}
	return nil
}

func (g *EventGenerator) watchManager(name string, m *services.Manager) {
	typ := m.Type().String()
	emit := func(reason EventReason) func() {
		return func() {
			g.ServiceEvent(name, reason, EventData{ServiceType: typ, To: string(m.State())})
		}
	}

	m.OnInitialized(emit(ReasonServiceInitialized))
	m.OnConnected(emit(ReasonServiceConnected))
	m.OnDisconnected(emit(ReasonServiceDisconnected))
	m.OnAuthenticated(emit(ReasonServiceAuthenticated))
	m.OnDeauthenticated(emit(ReasonServiceDeauthenticated))
	m.OnReady(emit(ReasonServiceReady))

	m.OnStateChanged(func(oldState, newState services.ServiceState) {
		g.ServiceEvent(name, ReasonServiceStateChanged, EventData{
			ServiceType: typ,
			From:        string(oldState),
			To:          string(newState),
		})
	})

	m.OnError(func(stage services.Stage, err error) {
		g.ServiceEvent(name, failureReason(stage), EventData{
			ServiceType: typ,
			Stage:       string(stage),
			Error:       err.Error(),
		})
	})
}

// WatchContainer publishes the lifecycle events of every service in c to sink.
func WatchContainer(c *services.Container, sink Sink) (*EventGenerator, error) {
	g := NewEventGenerator(sink)
	if err := g.Watch(c); err != nil {
		return nil, err
	}
	return g, nil
}

func failureReason(stage services.Stage) EventReason {
	switch stage {
	case services.StageInitialize:
		return ReasonServiceInitializeFailed
	case services.StageConnect:
		return ReasonServiceConnectFailed
	default:
		return ReasonServiceAuthenticateFailed
	}
}
