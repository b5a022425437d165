package coro

import "iter"

// A Generator is a suspend-on-produce lazy sequence.
//
// The body runs only as far as needed: each [Generator.Next] resumes it
// until the next produced value or until the body returns. Produced values
// overwrite a single current-value slot; there is never more than one
// outstanding value. A generator is single-pass and restartable only at
// construction.
//
// Generators are meant for single-threaded use. A panic inside the body is
// not recovered and takes the process down; bodies that need recoverable
// errors must recover internally or use a [Task] instead.
type Generator[T any] struct {
	co      *Coroutine
	current T
	done    bool
}

// NewGenerator creates an inert generator. The body produces values by
// calling yield, which suspends it until the next advance.
func NewGenerator[T any](body func(co *Coroutine, yield func(T))) *Generator[T] {
	g := &Generator[T]{}
	g.co = newCoroutine(func(co *Coroutine) {
		body(co, func(v T) {
			g.current = v
			co.Suspend()
		})
	})
	return g
}

// Next advances the body to its next produced value and reports whether
// one is available. Once the body has returned, Next keeps reporting
// false without doing any work.
func (g *Generator[T]) Next() bool {
	if g.done {
		return false
	}
	g.co.Resume()
	if g.co.completed() {
		g.done = true
		return false
	}
	return true
}

// Current returns the most recently produced value. It is valid only
// after a Next call that returned true, and until the next advance.
func (g *Generator[T]) Current() T {
	return g.current
}

// All adapts g for range-over-func iteration. Breaking out of the range
// early leaves the body suspended; its goroutine is then parked for the
// remainder of the process.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for g.Next() {
			if !yield(g.Current()) {
				return
			}
		}
	}
}
