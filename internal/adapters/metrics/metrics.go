// Package metrics records engine counters in a Prometheus registry.
package metrics

import (
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "rebund"

var _ ports.Metrics = (*Metrics)(nil)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	invalidationsTotal *prometheus.CounterVec
	bundlerInvocations *prometheus.CounterVec
	buildDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "request",
				Name:      "duration_seconds",
				Help:      "Duration of request executions in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"kind"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "request",
				Name:      "total",
				Help:      "Settled requests by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		invalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalidations_total",
				Help:      "Nodes invalidated directly by a trigger, by trigger kind.",
			},
			[]string{"trigger"},
		),
		bundlerInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bundler_invocations_total",
				Help:      "Calls of the bundler plugin.",
			},
			[]string{"bundler"},
		),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "duration_seconds",
				Help:      "Duration of builds in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"success"},
		),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.invalidationsTotal,
		m.bundlerInvocations,
		m.buildDuration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one settled request.
func (m *Metrics) ObserveRequest(kind domain.RequestKind, outcome string, d time.Duration) {
	m.requestsTotal.WithLabelValues(string(kind), outcome).Inc()
	if outcome == ports.OutcomeExecuted || outcome == ports.OutcomeErrored {
		m.requestDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
	}
}

// AddInvalidations records n nodes invalidated directly by a trigger kind.
func (m *Metrics) AddInvalidations(trigger domain.TriggerKind, n int) {
	if n <= 0 {
		return
	}
	m.invalidationsTotal.WithLabelValues(trigger.String()).Add(float64(n))
}

// IncBundlerInvocations records one call of the named bundler.
func (m *Metrics) IncBundlerInvocations(bundler string) {
	m.bundlerInvocations.WithLabelValues(bundler).Inc()
}

// ObserveBuild records one finished build.
func (m *Metrics) ObserveBuild(success bool, d time.Duration) {
	m.buildDuration.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

// Dump writes every metric family in the Prometheus text format.
func (m *Metrics) Dump(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return zerr.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return zerr.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}
