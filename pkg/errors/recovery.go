package errors

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic turns a value returned by recover() into a fatal internal error.
// The stack is kept in the details so it can be logged next to the decision
// that was turned into a deny.
func RecoverPanic(r interface{}) error {
	if r == nil {
		return nil
	}

	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("panic: %v", r)
	}

	return ErrInternal.
		WithCause(cause).
		WithDetail("panic", fmt.Sprint(r)).
		WithDetail("stack_trace", string(debug.Stack())).
		AsFatal()
}
