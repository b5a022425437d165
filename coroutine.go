package coro

import (
	"sync"
	"sync/atomic"
)

const (
	stateCreated int32 = iota
	stateSuspended
	stateRunning
	stateCompleted
)

// A Coroutine is the resumable handle of one suspendable computation.
//
// The computation's body runs on a dedicated goroutine, created lazily on
// the first resume. Control is handed over by rendezvous: [Coroutine.Resume]
// transfers control to the body and returns only when the body suspends
// again or completes. Whoever resumed the coroutine last is its controller
// until the next suspension point, so there is never more than one thread
// executing the body.
//
// Exactly one party owns a coroutine at any time. Resuming a suspended
// coroutine from two threads at once is a contract violation; library code
// always funnels resumption through a one-shot [Continuation].
type Coroutine struct {
	runMu   sync.Mutex // serializes controllers
	state   atomic.Int32
	claimed atomic.Bool // initial resume has an owner
	body    func(*Coroutine)
	final   func() // runs on the body goroutine after the last hand-off
	resume  chan struct{}
	yield   chan struct{}
}

func newCoroutine(body func(*Coroutine)) *Coroutine {
	return &Coroutine{
		body:   body,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
}

// Resume forces the computation to run until its next suspension point or
// until it completes. The first call starts the body; resuming a completed
// coroutine is a no-op.
func (co *Coroutine) Resume() {
	co.claimed.Store(true)
	co.runMu.Lock()
	defer co.runMu.Unlock()

	switch co.state.Load() {
	case stateCompleted:
		return
	case stateCreated:
		co.state.Store(stateRunning)
		go co.run()
	default:
		co.state.Store(stateRunning)
		co.resume <- struct{}{}
	}

	<-co.yield
}

func (co *Coroutine) run() {
	co.body(co)
	co.state.Store(stateCompleted)
	co.yield <- struct{}{}
	if f := co.final; f != nil {
		f()
	}
}

// Suspend parks the body until an outstanding [Continuation] fires.
// It must only be called from within the body, after arranging resumption.
func (co *Coroutine) Suspend() {
	co.state.Store(stateSuspended)
	co.yield <- struct{}{}
	<-co.resume
}

func (co *Coroutine) completed() bool {
	return co.state.Load() == stateCompleted
}

// start performs the initial resume unless someone already has.
// Await and a scheduled initial resumption may race for a fresh task;
// the claim guarantees the body is triggered exactly once.
func (co *Coroutine) start() {
	if co.claimed.CompareAndSwap(false, true) {
		co.Resume()
	}
}

// Resumable is any handle that can be driven forward.
// It is the currency of [Scheduler] work items.
//
// [*Coroutine], [*Continuation] and [*Task] are all Resumable.
type Resumable interface {
	Resume()
}

// A Continuation is a one-shot resume cell for a suspended computation.
//
// Producers store a continuation and fire it exactly once when they
// complete; the latch makes the invariant checkable, so a second fire is
// a harmless no-op instead of a double resume.
type Continuation struct {
	co   *Coroutine
	used atomic.Bool
}

// Continuation mints a fresh one-shot resume cell for co. There must be at
// most one outstanding continuation per suspension point.
func (co *Coroutine) Continuation() *Continuation {
	return &Continuation{co: co}
}

// Resume fires the continuation, transferring control to the suspended
// computation until its next suspension point. Only the first call has any
// effect.
func (k *Continuation) Resume() {
	if !k.used.CompareAndSwap(false, true) {
		return
	}
	k.co.Resume()
}
