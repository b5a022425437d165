package coro

import (
	"context"
	"os"
	"runtime/debug"
	"time"

	"golang.org/x/sync/semaphore"
)

// This file wraps blocking externals as adapters satisfying the
// suspension contract: mint a continuation, arrange for it to fire,
// suspend, then produce the result or the error.

// Delay suspends the calling computation for at least d.
// It is a one-shot, non-cancellable wait.
func Delay(co *Coroutine, d time.Duration) {
	k := co.Continuation()
	time.AfterFunc(d, k.Resume)
	co.Suspend()
}

// Go runs f on its own goroutine and suspends the calling computation
// until f returns. A panic in f is captured as a [*PanicError] and
// returned as the error.
func Go[T any](co *Coroutine, f func() (T, error)) (T, error) {
	var (
		value T
		err   error
	)
	k := co.Continuation()
	go func() {
		defer k.Resume()
		defer func() {
			if v := recover(); v != nil {
				err = &PanicError{Value: v, Stack: debug.Stack()}
			}
		}()
		value, err = f()
	}()
	co.Suspend()
	return value, err
}

// ReadFile suspends the calling computation while name is read on a
// separate goroutine.
func ReadFile(co *Coroutine, name string) ([]byte, error) {
	return Go(co, func() ([]byte, error) {
		return os.ReadFile(name)
	})
}

// WriteFile suspends the calling computation while data is written to
// name on a separate goroutine.
func WriteFile(co *Coroutine, name string, data []byte) error {
	_, err := Go(co, func() (struct{}, error) {
		return struct{}{}, os.WriteFile(name, data, 0o644)
	})
	return err
}

// A Pool bounds how many blocking adapters run at once.
// The zero value is not usable; use [NewPool].
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool admitting up to limit concurrent calls.
func NewPool(limit int64) *Pool {
	return &Pool{sem: semaphore.NewWeighted(limit)}
}

// On is like [Go], but admission into f is bounded by p: the spawned
// goroutine waits for a pool slot before calling f, while the suspended
// computation stays parked.
func On[T any](co *Coroutine, p *Pool, f func() (T, error)) (T, error) {
	return Go(co, func() (T, error) {
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			var zero T
			return zero, err
		}
		defer p.sem.Release(1)
		return f()
	})
}
