// Package statemachine implements the finite state machine that backs every
// service lifecycle in dai.
//
// A StateMachine is built from an initial state and a transition table that
// maps each state to the states directly reachable from it. The table is
// validated once at construction time and never changes afterwards.
//
//	sm, err := statemachine.New("CREATED", statemachine.Table{
//	    "CREATED":      {"INITIALIZING"},
//	    "INITIALIZING": {"CREATED", "READY"},
//	    "READY":        {},
//	})
//
//	sm.OnStateChanged(func(old, new statemachine.State) {
//	    fmt.Printf("%s -> %s\n", old, new)
//	})
//
//	err = sm.TransitionTo("INITIALIZING") // ok
//	err = sm.TransitionTo("READY")        // ok
//	err = sm.TransitionTo("CREATED")      // *IllegalStateError, state stays READY
//
// Transitioning to the current state is a no-op and does not notify listeners.
//
// # Compare and transition
//
// Lifecycle code that races with asynchronous disconnects uses
// CompareAndTransition, which only moves the machine if it is still in one of
// the expected states. The check and the move happen under one lock.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Listeners run on the goroutine
// that performed the transition, after the internal lock is released, in the
// order they were registered.
package statemachine
