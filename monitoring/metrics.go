package monitoring

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
)

// Metrics is a tracer that exports finished tasks as Prometheus metrics. Task
// latencies are measured in simulated seconds.
type Metrics struct {
	timeTeller sim.TimeTeller
	registry   *prometheus.Registry

	finished *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec

	lock    sync.Mutex
	started map[string]tracing.Task
}

// NewMetrics creates the metrics on a registry of their own.
func NewMetrics(timeTeller sim.TimeTeller) *Metrics {
	m := &Metrics{
		timeTeller: timeTeller,
		registry:   prometheus.NewRegistry(),
		started:    make(map[string]tracing.Task),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbus_transactions_total",
				Help: "Number of finished transactions",
			},
			[]string{"location", "kind", "command", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitbus_transaction_latency_seconds",
				Help:    "Simulated time from issue to completion",
				Buckets: prometheus.ExponentialBuckets(1e-9, 2, 12),
			},
			[]string{"location", "kind"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "splitbus_transactions_in_flight",
				Help: "Number of transactions started but not finished",
			},
			[]string{"location", "kind"},
		),
	}

	m.registry.MustRegister(m.finished, m.latency, m.inFlight)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StartTask records the start time of the task.
func (m *Metrics) StartTask(task tracing.Task) {
	task.StartTime = m.timeTeller.CurrentTime()

	m.lock.Lock()
	m.started[task.ID] = task
	m.lock.Unlock()

	m.inFlight.WithLabelValues(task.Location, task.Kind).Inc()
}

// StepTask does nothing.
func (m *Metrics) StepTask(_ tracing.Task) {}

// EndTask counts the task and observes its latency. The status is taken
// from the detail given when the task ends.
func (m *Metrics) EndTask(task tracing.Task) {
	m.lock.Lock()
	original, ok := m.started[task.ID]
	delete(m.started, task.ID)
	m.lock.Unlock()

	if !ok {
		return
	}

	status := "unknown"
	if task.Detail != nil {
		status = fmt.Sprint(task.Detail)
	}

	latency := m.timeTeller.CurrentTime() - original.StartTime

	m.finished.
		WithLabelValues(original.Location, original.Kind, original.What, status).
		Inc()
	m.latency.
		WithLabelValues(original.Location, original.Kind).
		Observe(latency.InSec())
	m.inFlight.WithLabelValues(original.Location, original.Kind).Dec()
}
