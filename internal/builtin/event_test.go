package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dai/internal/events"
	"dai/internal/provider"
	"dai/internal/services"
)

func TestEventService_EmitAndSubscribe(t *testing.T) {
	ev := get[*EventService](t, initialized(t, nil), EventRole)

	var all, web3 collector
	ev.On("*", all.handle)
	unsubscribe := ev.On("web3/*", web3.handle)

	ev.Emit("web3/BLOCK", uint64(7))
	ev.Emit("accounts/CHANGE", nil)
	unsubscribe()
	ev.Emit("web3/DISCONNECTED", nil)

	assert.Len(t, all.list(), 3)
	require.Len(t, web3.list(), 1)
	assert.Equal(t, uint64(7), web3.list()[0].Payload)
	assert.Len(t, ev.Events(), 3)
}

func TestEventService_HistorySize(t *testing.T) {
	c := initialized(t, map[string]provider.ServiceConfig{
		EventRole: provider.Enabled(services.Settings{"historySize": 2}),
	})
	ev := get[*EventService](t, c, EventRole)

	for _, topic := range []string{"a", "b", "c"} {
		ev.Emit(topic, nil)
	}

	history := ev.Events()
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].Topic)
	assert.Equal(t, "c", history[1].Topic)
}

func TestEventService_HistorySizeKeepsEarlierState(t *testing.T) {
	c := build(t, map[string]provider.ServiceConfig{
		EventRole: provider.Enabled(services.Settings{"historySize": 2}),
	})
	ev := get[*EventService](t, c, EventRole)

	var seen collector
	ev.On("*", seen.handle)
	ev.Publish(events.Event{Topic: "early/1"})
	ev.Publish(events.Event{Topic: "early/2"})
	ev.Publish(events.Event{Topic: "early/3"})

	require.NoError(t, c.Initialize(context.Background()))
	ev.Publish(events.Event{Topic: "late"})

	history := ev.Events()
	require.Len(t, history, 2)
	assert.Equal(t, "early/3", history[0].Topic)
	assert.Equal(t, "late", history[1].Topic)
	assert.Len(t, seen.list(), 4, "subscription made before init still receives events")
}

func TestEventService_InvalidHistorySize(t *testing.T) {
	for _, size := range []interface{}{"ten", -1} {
		c := build(t, map[string]provider.ServiceConfig{
			EventRole: provider.Enabled(services.Settings{"historySize": size}),
		})
		assert.ErrorContains(t, c.Initialize(context.Background()), "historySize", "%v", size)
	}
}
