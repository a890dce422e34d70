package statemachine

import (
	"errors"
	"fmt"
	"strings"
)

// IllegalStateError is returned when a transition is not allowed by the
// table or when AssertState finds the machine in an unexpected state.
type IllegalStateError struct {
	// Operation is an optional label for the attempted operation.
	Operation string
	From      State
	To        State
	Expected  []State
}

func (e *IllegalStateError) Error() string {
	if len(e.Expected) > 0 {
		expected := make([]string, len(e.Expected))
		for i, s := range e.Expected {
			expected[i] = string(s)
		}
		msg := fmt.Sprintf("illegal state %s, expected one of [%s]", e.From, strings.Join(expected, ", "))
		if e.Operation != "" {
			msg = fmt.Sprintf("cannot %s: %s", e.Operation, msg)
		}
		return msg
	}
	return fmt.Sprintf("illegal state transition: %s to %s", e.From, e.To)
}

// IsIllegalState reports whether err is or wraps an IllegalStateError.
func IsIllegalState(err error) bool {
	var target *IllegalStateError
	return errors.As(err, &target)
}

// InvalidTableError is returned by New when the transition table or the
// initial state is malformed.
type InvalidTableError struct {
	Reason string
}

func (e *InvalidTableError) Error() string {
	return "invalid state machine: " + e.Reason
}
