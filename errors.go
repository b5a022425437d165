package coro

import (
	"errors"
	"fmt"
)

// ErrClosed is reported by [Channel.Send] and [Channel.Receive] when the
// channel has been closed. Use [errors.Is] to test for it.
var ErrClosed = errors.New("coro: channel closed")

// A PanicError is stored in a [Task]'s result cell when the task body
// panics. The panic value and a stack trace captured at the panic site are
// preserved and re-surfaced to whoever reads the result.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("coro: task panicked: %v", e.Value)
}
