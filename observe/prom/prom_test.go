package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yamakiri/coro"
)

func TestObserverCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := New(reg)

	o.ItemScheduled(1)
	o.ItemScheduled(1)
	o.ItemScheduled(7)

	if got := testutil.ToFloat64(o.scheduled.WithLabelValues("1")); got != 2 {
		t.Fatalf("scheduled{priority=1} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.scheduled.WithLabelValues("7")); got != 1 {
		t.Fatalf("scheduled{priority=7} = %v, want 1", got)
	}

	o.ItemStarted()
	o.ItemStarted()
	if got := testutil.ToFloat64(o.inFlight); got != 2 {
		t.Fatalf("in flight = %v, want 2", got)
	}

	o.ItemFinished(5*time.Millisecond, false)
	o.ItemFinished(5*time.Millisecond, true)
	if got := testutil.ToFloat64(o.inFlight); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(o.panics); got != 1 {
		t.Fatalf("panics = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(o.duration); got != 1 {
		t.Fatalf("duration collected %d series, want 1", got)
	}
}

type resumeFunc func()

func (f resumeFunc) Resume() { f() }

func TestObserverThroughScheduler(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := New(reg)

	s := coro.NewScheduler(coro.WithObserver(o))
	s.Start(1)

	ran := make(chan struct{})
	s.Schedule(resumeFunc(func() { close(ran) }), 3)
	<-ran
	s.Stop() // joins the worker, so ItemFinished has been called

	if got := testutil.ToFloat64(o.scheduled.WithLabelValues("3")); got != 1 {
		t.Fatalf("scheduled{priority=3} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.inFlight); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(o.duration); got != 1 {
		t.Fatalf("duration collected %d series, want 1", got)
	}
}
