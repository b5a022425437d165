package coro

import "sync"

// A Channel connects independently running computations.
//
// A channel has a capacity C. With C > 0, up to C values are buffered in
// FIFO order; with C = 0 every transfer is a rendezvous, a direct hand-off
// between a waiting sender and a waiting receiver with no buffering.
// Multiple concurrent senders and receivers are supported; one mutex
// guards the buffer and both wait queues, and is always released before
// any continuation is resumed.
type Channel[T any] struct {
	mu     sync.Mutex
	cap    int
	buf    []T
	sendq  []*sendWaiter[T]
	recvq  []*recvWaiter[T]
	closed bool
}

type sendWaiter[T any] struct {
	value  T
	k      *Continuation
	closed bool
}

type recvWaiter[T any] struct {
	value T
	ok    bool
	k     *Continuation
}

// NewChannel creates a channel with the given capacity.
// A capacity of 0 makes every transfer a rendezvous.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 0 {
		panic("coro: negative channel capacity")
	}
	return &Channel[T]{cap: capacity}
}

// Send delivers v into the channel, suspending the calling computation
// when no receiver is waiting and the buffer is full. Send fails with
// [ErrClosed] if the channel is closed, even when a receiver is waiting.
func (ch *Channel[T]) Send(co *Coroutine, v T) error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return ErrClosed
	}

	// Direct transfer to a waiting receiver; the value never touches
	// the buffer.
	if len(ch.recvq) > 0 {
		r := ch.recvq[0]
		ch.recvq = ch.recvq[1:]
		r.value, r.ok = v, true
		ch.mu.Unlock()
		r.k.Resume()
		return nil
	}

	if len(ch.buf) < ch.cap {
		ch.buf = append(ch.buf, v)
		ch.mu.Unlock()
		return nil
	}

	w := &sendWaiter[T]{value: v, k: co.Continuation()}
	ch.sendq = append(ch.sendq, w)
	ch.mu.Unlock()

	co.Suspend()

	if w.closed {
		return ErrClosed
	}
	return nil
}

// Receive takes the next value from the channel, suspending the calling
// computation when none is available. After close, buffered values remain
// receivable until drained; once the channel is both empty and closed,
// Receive fails with [ErrClosed].
func (ch *Channel[T]) Receive(co *Coroutine) (T, error) {
	ch.mu.Lock()

	if len(ch.buf) > 0 {
		v := ch.buf[0]
		ch.buf = ch.buf[1:]
		// A waiting sender's value moves into the freed slot.
		if len(ch.sendq) > 0 {
			w := ch.sendq[0]
			ch.sendq = ch.sendq[1:]
			ch.buf = append(ch.buf, w.value)
			ch.mu.Unlock()
			w.k.Resume()
			return v, nil
		}
		ch.mu.Unlock()
		return v, nil
	}

	// Empty buffer, waiting sender: take the value directly.
	if len(ch.sendq) > 0 {
		w := ch.sendq[0]
		ch.sendq = ch.sendq[1:]
		v := w.value
		ch.mu.Unlock()
		w.k.Resume()
		return v, nil
	}

	if ch.closed {
		var zero T
		ch.mu.Unlock()
		return zero, ErrClosed
	}

	r := &recvWaiter[T]{k: co.Continuation()}
	ch.recvq = append(ch.recvq, r)
	ch.mu.Unlock()

	co.Suspend()

	if !r.ok {
		var zero T
		return zero, ErrClosed
	}
	return r.value, nil
}

// Close closes the channel. Close is idempotent. Every waiting receiver
// and then every waiting sender is resumed and fails with [ErrClosed];
// already-buffered values are not discarded and remain receivable.
func (ch *Channel[T]) Close() {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	recvq, sendq := ch.recvq, ch.sendq
	ch.recvq, ch.sendq = nil, nil
	ch.mu.Unlock()

	for _, r := range recvq {
		r.k.Resume()
	}
	for _, w := range sendq {
		w.closed = true
		w.k.Resume()
	}
}

// IsClosed reports whether the channel has been closed.
func (ch *Channel[T]) IsClosed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// Len returns a point-in-time snapshot of the number of buffered values.
func (ch *Channel[T]) Len() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.buf)
}

// Cap returns the channel's capacity.
func (ch *Channel[T]) Cap() int {
	return ch.cap
}
