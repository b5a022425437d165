package coro

// A ScheduledTask is a [Task] whose completion hands the waiting
// continuation back to a [Scheduler] instead of resuming it inline.
// This decouples "producer finished" from "consumer resumed on this
// thread", letting load migrate across workers.
type ScheduledTask[T any] struct {
	*Task[T]
}

// NewScheduled creates an inert scheduled task to work on body.
func NewScheduled[T any](body func(co *Coroutine) (T, error)) *ScheduledTask[T] {
	return &ScheduledTask[T]{Task: New(body)}
}

// Start binds s and priority to the task and enqueues its initial
// resumption. A nil scheduler falls back to immediate inline execution,
// matching [Task]'s default behavior; so does completion dispatch when the
// bound scheduler has stopped by then.
func (t *ScheduledTask[T]) Start(s *Scheduler, priority int) {
	if s == nil {
		t.Resume()
		return
	}
	t.mu.Lock()
	t.dispatch = func(k *Continuation) {
		s.Schedule(k, priority)
	}
	t.mu.Unlock()
	s.Schedule(initialResume{t.co}, priority)
}

// initialResume triggers a task's first run. If an awaiter beat the
// worker to it, resuming is a no-op rather than a second trigger.
type initialResume struct {
	co *Coroutine
}

func (r initialResume) Resume() {
	r.co.start()
}
