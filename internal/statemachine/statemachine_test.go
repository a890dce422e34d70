package statemachine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lightTable() Table {
	return Table{
		"OFF":    {"ON"},
		"ON":     {"OFF", "BROKEN"},
		"BROKEN": {},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		initial State
		table   Table
		wantErr bool
	}{
		{name: "valid table", initial: "OFF", table: lightTable()},
		{name: "nil table", initial: "OFF", table: nil, wantErr: true},
		{name: "empty table", initial: "OFF", table: Table{}, wantErr: true},
		{name: "initial state missing", initial: "DIMMED", table: lightTable(), wantErr: true},
		{
			name:    "target not a key",
			initial: "OFF",
			table:   Table{"OFF": {"ON"}, "ON": {"DIMMED"}},
			wantErr: true,
		},
		{name: "single terminal state", initial: "DONE", table: Table{"DONE": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := New(tt.initial, tt.table)
			if tt.wantErr {
				require.Error(t, err)
				var tableErr *InvalidTableError
				assert.ErrorAs(t, err, &tableErr)
				assert.Nil(t, sm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.initial, sm.State())
		})
	}
}

func TestNew_CopiesTable(t *testing.T) {
	table := lightTable()
	sm, err := New("OFF", table)
	require.NoError(t, err)

	table["OFF"] = append(table["OFF"], "BROKEN")

	err = sm.TransitionTo("BROKEN")
	assert.True(t, IsIllegalState(err), "mutating the caller's table must not affect the machine")
}

func TestTransitionTo(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	require.NoError(t, sm.TransitionTo("ON"))
	assert.Equal(t, State("ON"), sm.State())

	err = sm.TransitionTo("DIMMED")
	require.Error(t, err)
	assert.True(t, IsIllegalState(err))
	assert.Equal(t, State("ON"), sm.State(), "unknown state must leave state unchanged")

	require.NoError(t, sm.TransitionTo("BROKEN"))

	err = sm.TransitionTo("OFF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BROKEN to OFF")
	assert.Equal(t, State("BROKEN"), sm.State())
}

func TestTransitionTo_SameStateIsNoop(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	calls := 0
	sm.OnStateChanged(func(_, _ State) { calls++ })

	require.NoError(t, sm.TransitionTo("OFF"))
	assert.Equal(t, 0, calls)

	// Even terminal states accept a self transition.
	require.NoError(t, sm.TransitionTo("ON"))
	require.NoError(t, sm.TransitionTo("BROKEN"))
	require.NoError(t, sm.TransitionTo("BROKEN"))
	assert.Equal(t, 2, calls)
}

func TestOnStateChanged_Order(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	var got []string
	sm.OnStateChanged(func(old, new State) { got = append(got, "first:"+string(old)+">"+string(new)) })
	sm.OnStateChanged(func(old, new State) { got = append(got, "second:"+string(old)+">"+string(new)) })
	sm.OnStateChanged(nil)

	require.NoError(t, sm.TransitionTo("ON"))
	_ = sm.TransitionTo("DIMMED")

	assert.Equal(t, []string{"first:OFF>ON", "second:OFF>ON"}, got)
}

func TestOnStateChanged_ListenerCanReadState(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	var seen State
	sm.OnStateChanged(func(_, _ State) { seen = sm.State() })

	require.NoError(t, sm.TransitionTo("ON"))
	assert.Equal(t, State("ON"), seen)
}

func TestInStateAndAssertState(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	assert.True(t, sm.InState("OFF"))
	assert.True(t, sm.InState("ON", "OFF"))
	assert.False(t, sm.InState("ON"))
	assert.False(t, sm.InState())

	assert.NoError(t, sm.AssertState("switch", "OFF", "ON"))

	err = sm.AssertState("repair", "BROKEN")
	require.Error(t, err)
	assert.True(t, IsIllegalState(err))
	assert.Contains(t, err.Error(), "repair")
	assert.Contains(t, err.Error(), "OFF")
}

func TestCompareAndTransition(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	ok, err := sm.CompareAndTransition([]State{"ON"}, "BROKEN")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, State("OFF"), sm.State())

	ok, err = sm.CompareAndTransition([]State{"OFF"}, "ON")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, State("ON"), sm.State())

	ok, err = sm.CompareAndTransition([]State{"ON"}, "DIMMED")
	assert.False(t, ok)
	assert.True(t, IsIllegalState(err))
}

func TestCanTransitionTo(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	assert.True(t, sm.CanTransitionTo("ON"))
	assert.False(t, sm.CanTransitionTo("BROKEN"))
	assert.False(t, sm.CanTransitionTo("DIMMED"))
}

func TestConcurrentCompareAndTransition(t *testing.T) {
	sm, err := New("OFF", lightTable())
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := sm.CompareAndTransition([]State{"OFF"}, "ON")
			if err == nil && ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won, "exactly one goroutine should move OFF to ON")
	assert.Equal(t, State("ON"), sm.State())
}
