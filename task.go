package coro

import (
	"runtime/debug"
	"sync"
)

// A Task is a deferred, single-result asynchronous computation.
//
// A task is inert when created: no work runs until it is resumed or
// awaited. When the body returns or panics, the value or error is written
// to the result cell exactly once, and the registered continuation, if
// any, is resumed. A panic inside the body does not propagate; it is
// captured as a [*PanicError] and re-surfaced to whoever reads the result.
type Task[T any] struct {
	co       *Coroutine
	mu       sync.Mutex
	done     bool
	value    T
	err      error
	cont     *Continuation
	dispatch func(*Continuation) // set by ScheduledTask
	doneCh   chan struct{}
}

// New creates an inert task to work on body.
func New[T any](body func(co *Coroutine) (T, error)) *Task[T] {
	t := &Task[T]{doneCh: make(chan struct{})}
	t.co = newCoroutine(func(co *Coroutine) {
		value, err := runBody(co, body)
		t.mu.Lock()
		t.value, t.err, t.done = value, err, true
		t.mu.Unlock()
		close(t.doneCh)
	})
	t.co.final = t.finish
	return t
}

func runBody[T any](co *Coroutine, body func(co *Coroutine) (T, error)) (value T, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return body(co)
}

// finish runs on the body goroutine after the final control hand-off.
func (t *Task[T]) finish() {
	t.mu.Lock()
	k := t.cont
	t.cont = nil
	dispatch := t.dispatch
	t.mu.Unlock()

	if k == nil {
		return // no waiter; completion is terminal
	}
	if dispatch != nil {
		dispatch(k)
		return
	}
	k.Resume()
}

// Resume forces execution until the next suspension point or completion.
// Resuming a completed task is a no-op.
func (t *Task[T]) Resume() {
	t.co.Resume()
}

// IsDone reports whether the result cell has been written.
func (t *Task[T]) IsDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Await suspends the calling computation until t completes, then returns
// t's value or error. If t is already completed, Await returns immediately
// without suspending. Otherwise the caller is registered as t's
// continuation — a task holds at most one — and t is started if it has not
// run yet.
func Await[T any](co *Coroutine, t *Task[T]) (T, error) {
	t.mu.Lock()
	if t.done {
		value, err := t.value, t.err
		t.mu.Unlock()
		return value, err
	}
	if t.cont != nil {
		t.mu.Unlock()
		panic("coro: task already has a continuation")
	}
	t.cont = co.Continuation()
	t.mu.Unlock()

	// Trigger a fresh task. A task that already started and suspended has
	// an outstanding resume owned by whatever it is waiting on; forcing
	// another here would resume it twice.
	t.co.start()

	co.Suspend()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.err
}

// Wait blocks the calling goroutine until t completes. It is the bridge
// for code outside the runtime; within a computation, use [Await].
func (t *Task[T]) Wait() {
	<-t.doneCh
}

// Result blocks like [Task.Wait], then returns the task's value or error.
func (t *Task[T]) Result() (T, error) {
	<-t.doneCh
	return t.value, t.err
}
