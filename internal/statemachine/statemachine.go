package statemachine

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// State is a single node of a transition table.
type State string

// Table maps every state to the states directly reachable from it.
type Table map[State][]State

// ChangeListener is notified after every effective transition.
type ChangeListener func(oldState, newState State)

// StateMachine tracks a current state and enforces a transition table.
type StateMachine struct {
	mu        sync.RWMutex
	state     State
	table     Table
	listeners []ChangeListener
}

// New validates the table and returns a machine in the initial state.
func New(initial State, table Table) (*StateMachine, error) {
	if len(table) == 0 {
		return nil, &InvalidTableError{Reason: "transition table must not be empty"}
	}

	// Sorted so the reported offender is deterministic.
	keys := make([]State, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	copied := make(Table, len(table))
	for _, from := range keys {
		targets := table[from]
		for _, to := range targets {
			if _, ok := table[to]; !ok {
				return nil, &InvalidTableError{
					Reason: fmt.Sprintf("state %s reachable from %s is not defined in the table", to, from),
				}
			}
		}
		copied[from] = slices.Clone(targets)
	}

	if _, ok := table[initial]; !ok {
		return nil, &InvalidTableError{Reason: fmt.Sprintf("initial state %s is not defined in the table", initial)}
	}

	return &StateMachine{state: initial, table: copied}, nil
}

// State returns the current state.
func (sm *StateMachine) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.state
}

// InState reports whether the current state is any of states.
func (sm *StateMachine) InState(states ...State) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(states, sm.state)
}

// AssertState returns an IllegalStateError labelled with operation unless the
// machine is in one of states.
func (sm *StateMachine) AssertState(operation string, states ...State) error {
	sm.mu.RLock()
	current := sm.state
	sm.mu.RUnlock()

	if slices.Contains(states, current) {
		return nil
	}
	return &IllegalStateError{Operation: operation, From: current, Expected: slices.Clone(states)}
}

// CanTransitionTo reports whether next is reachable from the current state.
func (sm *StateMachine) CanTransitionTo(next State) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.allowed(next)
}

// OnStateChanged registers a listener for effective transitions.
func (sm *StateMachine) OnStateChanged(listener ChangeListener) {
	if listener == nil {
		return
	}
	sm.mu.Lock()
	sm.listeners = append(sm.listeners, listener)
	sm.mu.Unlock()
}

// TransitionTo moves the machine to next. Moving to the current state is a
// no-op.
func (sm *StateMachine) TransitionTo(next State) error {
	_, err := sm.transition(nil, next)
	return err
}

// CompareAndTransition moves the machine to next only if it is currently in
// one of expected. It returns false, without error, when the machine was
// elsewhere.
func (sm *StateMachine) CompareAndTransition(expected []State, next State) (bool, error) {
	return sm.transition(expected, next)
}

func (sm *StateMachine) transition(expected []State, next State) (bool, error) {
	sm.mu.Lock()
	old := sm.state
	if expected != nil && !slices.Contains(expected, old) {
		sm.mu.Unlock()
		return false, nil
	}
	if next == old {
		sm.mu.Unlock()
		return true, nil
	}
	if !sm.allowed(next) {
		sm.mu.Unlock()
		return false, &IllegalStateError{From: old, To: next}
	}
	sm.state = next
	listeners := slices.Clone(sm.listeners)
	sm.mu.Unlock()

	// Outside of the lock so listeners may query the machine.
	for _, l := range listeners {
		l(old, next)
	}
	return true, nil
}

// allowed must be called with the lock held.
func (sm *StateMachine) allowed(next State) bool {
	if _, ok := sm.table[next]; !ok {
		return false
	}
	return slices.Contains(sm.table[sm.state], next)
}
