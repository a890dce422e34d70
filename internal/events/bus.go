package events

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistorySize is the number of events a Bus keeps by default.
const DefaultHistorySize = 100

// Handler receives published events.
type Handler func(Event)

// Sink is anything events can be published to.
type Sink interface {
	Publish(Event)
}

type subscription struct {
	id      uint64
	pattern string
	handler Handler
}

// Bus is an in-process publish/subscribe hub. Handlers run synchronously on
// the publishing goroutine, in subscription order.
//
// A subscription pattern is either an exact topic, "*" for every topic, or
// a prefix ending in "/*" such as "web3/*".
type Bus struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    []subscription
	history []Event
	size    int
}

// NewBus creates a bus that remembers the last historySize events.
func NewBus(historySize int) *Bus {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Bus{size: historySize}
}

// Subscribe registers handler for pattern and returns a function that
// removes the subscription.
func (b *Bus) Subscribe(pattern string, handler Handler) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

// Publish delivers event to every matching subscriber. A missing ID or
// Timestamp is filled in.
func (b *Bus) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	b.history = append(b.history, event)
	if len(b.history) > b.size {
		b.history = slices.Clone(b.history[len(b.history)-b.size:])
	}
	var handlers []Handler
	for _, s := range b.subs {
		if matches(s.pattern, event.Topic) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Emit publishes payload on topic.
func (b *Bus) Emit(topic string, payload interface{}) {
	b.Publish(Event{Topic: topic, Type: EventTypeNormal, Payload: payload})
}

// SetHistorySize changes how many events are remembered. Shrinking drops the
// oldest events; a size of zero or less restores DefaultHistorySize.
func (b *Bus) SetHistorySize(size int) {
	if size <= 0 {
		size = DefaultHistorySize
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.size = size
	if len(b.history) > size {
		b.history = slices.Clone(b.history[len(b.history)-size:])
	}
}

// History returns the remembered events, oldest first.
func (b *Bus) History() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.history)
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func matches(pattern, topic string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "/*"):
		return strings.HasPrefix(topic, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == topic
	}
}
