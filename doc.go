// Package coro is a small runtime for suspendable computations.
//
// A suspendable computation is a unit of work that can pause at defined
// points and later resume from that exact point, preserving local progress.
// Each computation runs on its own goroutine, but control is cooperative:
// resuming a computation transfers control to it and returns only when it
// suspends again or completes, so within one computation execution is
// strictly sequential between suspension points.
//
// The package provides four building blocks:
//
//   - [Task]: a deferred, single-result asynchronous computation.
//     It is inert until resumed or awaited, stores its value or error in
//     a once-written result cell, and resumes at most one registered
//     continuation when it completes.
//   - [Generator]: a suspend-on-produce lazy sequence. Each call to
//     [Generator.Next] runs the body until the next value or completion.
//   - [Channel]: a thread-safe rendezvous channel connecting independently
//     running computations, with an optional FIFO buffer.
//   - [Scheduler]: a pool of worker goroutines popping a priority queue of
//     resumable handles. A [ScheduledTask] hands its completion
//     continuation back to the pool instead of resuming it inline, letting
//     load migrate across workers.
//
// Blocking externals (timers, file reads and writes, arbitrary blocking
// functions) are wrapped as adapters that satisfy the suspension contract:
// mint a [Continuation], arrange for it to fire, suspend, then produce the
// result. See [Delay], [ReadFile], [WriteFile], [Go] and [On].
//
// There is no way to abort a suspended computation from outside.
// A computation that is abandoned while suspended keeps its goroutine
// parked until the process exits.
package coro
