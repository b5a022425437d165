package coro

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Observer receives scheduler lifecycle callbacks. Implementations must be
// safe for concurrent use. See the observe/prom subpackage for a
// prometheus-backed implementation.
type Observer interface {
	// ItemScheduled is called when an item is pushed onto the queue.
	ItemScheduled(priority int)
	// ItemStarted is called on a worker just before resuming an item.
	ItemStarted()
	// ItemFinished is called when a resumption returns, with its duration
	// and whether it panicked.
	ItemFinished(d time.Duration, panicked bool)
}

// Option configures a [Scheduler].
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
	onPanic  func(v any)
}

// WithLogger sets the logger used to report panics escaping resumed
// handles. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver attaches an [Observer] to the scheduler.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithPanicHandler registers a handler for panics escaping resumed
// handles, replacing the default log-and-drop behavior. The handler runs
// on the worker that caught the panic.
func WithPanicHandler(f func(v any)) Option {
	return func(o *options) { o.onPanic = f }
}

type workItem struct {
	r        Resumable
	priority int
}

func (w workItem) less(other workItem) bool {
	return w.priority > other.priority
}

// A Scheduler resumes suspended computations on a pool of worker
// goroutines. Work items are popped in priority order; the relative order
// of equal-priority items is unspecified.
//
// A stopped scheduler never drops work silently: scheduling against it
// resumes the handle synchronously on the caller's goroutine.
type Scheduler struct {
	mu      sync.Mutex
	cond    sync.Cond
	pq      priorityqueue[workItem]
	running bool
	wg      sync.WaitGroup
	opts    options
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(optFns ...Option) *Scheduler {
	s := &Scheduler{opts: options{logger: slog.Default()}}
	for _, fn := range optFns {
		fn(&s.opts)
	}
	s.cond.L = &s.mu
	return s
}

// Start spawns the worker pool. A non-positive threads value means the
// available hardware parallelism, with a floor of one. Starting a running
// scheduler is a no-op.
func (s *Scheduler) Start(threads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
		if threads < 1 {
			threads = 1
		}
	}
	s.running = true
	s.wg.Add(threads)
	for range threads {
		go s.worker()
	}
}

// Stop signals all workers to exit and joins them. Items still queued but
// not yet popped are not guaranteed to run. Stopping a stopped scheduler
// is a no-op. Stop must not be called from a scheduled resumption.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

// IsRunning reports whether the worker pool is up.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Schedule queues r for resumption at the given priority and wakes a
// worker. Higher priorities are popped first. If the scheduler is not
// running, r is resumed synchronously on the caller's goroutine instead.
func (s *Scheduler) Schedule(r Resumable, priority int) {
	if r == nil {
		return
	}
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		r.Resume()
		return
	}
	s.pq.Push(workItem{r, priority})
	s.cond.Broadcast()
	s.mu.Unlock()
	if obs := s.opts.observer; obs != nil {
		obs.ItemScheduled(priority)
	}
}

// ScheduleBatch queues all handles at priority 0 in one critical section.
// If the scheduler is not running, each handle is resumed synchronously,
// in order.
func (s *Scheduler) ScheduleBatch(handles []Resumable) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		for _, r := range handles {
			if r != nil {
				r.Resume()
			}
		}
		return
	}
	for _, r := range handles {
		if r != nil {
			s.pq.Push(workItem{r, 0})
		}
	}
	s.cond.Broadcast()
	s.mu.Unlock()
	if obs := s.opts.observer; obs != nil {
		for _, r := range handles {
			if r != nil {
				obs.ItemScheduled(0)
			}
		}
	}
}

// QueueSize returns a point-in-time snapshot of the number of queued
// items. It is safe to call concurrently with scheduling.
func (s *Scheduler) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pq.Len()
}

// WaitForAll blocks until the queue is empty or the scheduler stops.
// This is a weak guarantee: it does not wait for in-flight resumptions to
// finish, only for the queue to drain.
func (s *Scheduler) WaitForAll() {
	s.mu.Lock()
	for s.running && !s.pq.Empty() {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	s.mu.Lock()
	for {
		for s.running && s.pq.Empty() {
			s.cond.Wait()
		}
		if !s.running {
			s.mu.Unlock()
			return
		}
		item := s.pq.Pop()
		if s.pq.Empty() {
			s.cond.Broadcast() // queue drained; wake WaitForAll
		}
		s.mu.Unlock()
		s.runItem(item)
		s.mu.Lock()
	}
}

// runItem resumes one handle, containing any panic that escapes it.
// A panic is handed to the registered panic handler, or logged and
// dropped; either way the worker survives.
func (s *Scheduler) runItem(item workItem) {
	obs := s.opts.observer
	var start time.Time
	if obs != nil {
		start = time.Now()
		obs.ItemStarted()
	}

	panicked := false
	func() {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			panicked = true
			if h := s.opts.onPanic; h != nil {
				h(v)
				return
			}
			s.opts.logger.Error("coro: panic escaped a scheduled resumption",
				"value", v, "priority", item.priority)
		}()
		item.r.Resume()
	}()

	if obs != nil {
		obs.ItemFinished(time.Since(start), panicked)
	}
}
