// Package prom provides a prometheus-backed [coro.Observer] for the
// scheduler.
package prom

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yamakiri/coro"
)

// Observer exports scheduler activity as prometheus metrics.
// Attach it with coro.WithObserver.
type Observer struct {
	scheduled *prometheus.CounterVec
	inFlight  prometheus.Gauge
	panics    prometheus.Counter
	duration  prometheus.Histogram
}

var _ coro.Observer = (*Observer)(nil)

// New creates an Observer with its collectors registered on reg.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		scheduled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coro_scheduler_items_scheduled_total",
			Help: "Work items pushed onto the scheduler queue.",
		}, []string{"priority"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "coro_scheduler_items_in_flight",
			Help: "Resumptions currently executing on workers.",
		}),
		panics: f.NewCounter(prometheus.CounterOpts{
			Name: "coro_scheduler_panics_total",
			Help: "Panics recovered from scheduled resumptions.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coro_scheduler_resumption_duration_seconds",
			Help:    "Duration of scheduled resumptions.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ItemScheduled implements [coro.Observer].
func (o *Observer) ItemScheduled(priority int) {
	o.scheduled.WithLabelValues(strconv.Itoa(priority)).Inc()
}

// ItemStarted implements [coro.Observer].
func (o *Observer) ItemStarted() {
	o.inFlight.Inc()
}

// ItemFinished implements [coro.Observer].
func (o *Observer) ItemFinished(d time.Duration, panicked bool) {
	o.inFlight.Dec()
	o.duration.Observe(d.Seconds())
	if panicked {
		o.panics.Inc()
	}
}
