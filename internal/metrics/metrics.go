// Package metrics carries the in-process Prometheus counters this
// system keeps even though wiring an exporter is out of scope (an
// ambient-stack concern, per SPEC_FULL.md's EXPANSION notes, not a
// feature the spec's Non-goals exclude): reload count, reconcile
// duration, and this replica's primary/redundant role.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every counter/gauge this system emits. All fields are
// safe for concurrent use, same as the underlying prometheus types.
type Metrics struct {
	ConfigReloadsTotal  *prometheus.CounterVec
	ReconcileDuration   *prometheus.HistogramVec
	Role                prometheus.Gauge
	ManagedObjectWrites *prometheus.CounterVec
}

// Outcome tags a reload or a write as successful or failed, the one
// label every counter here carries.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// New registers every metric against reg and returns the bundle.
// Callers typically pass prometheus.NewRegistry() in tests and
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ConfigReloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vale_gateway",
			Name:      "config_reloads_total",
			Help:      "Number of GatewayConfiguration synthesis passes, partitioned by outcome.",
		}, []string{"outcome"}),

		ReconcileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vale_gateway",
			Name:      "reconcile_duration_seconds",
			Help:      "Wall-clock time spent synthesizing and writing a gateway's configuration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		Role: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vale_gateway",
			Name:      "replica_is_primary",
			Help:      "1 if this replica currently holds the leader-election lease, 0 otherwise.",
		}),

		ManagedObjectWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vale_gateway",
			Name:      "managed_object_writes_total",
			Help:      "Number of Upsert/Delete actions issued by the managed object writer, partitioned by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordReload increments ConfigReloadsTotal for outcome.
func (m *Metrics) RecordReload(outcome Outcome) {
	m.ConfigReloadsTotal.WithLabelValues(string(outcome)).Inc()
}

// ObserveReconcile records how long stage took in ReconcileDuration.
func (m *Metrics) ObserveReconcile(stage string, d time.Duration) {
	m.ReconcileDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// SetPrimary reflects the current leader-election role in the Role
// gauge, per SPEC_FULL.md's "primary/redundant gauge" ambient-stack
// carve-out.
func (m *Metrics) SetPrimary(isPrimary bool) {
	if isPrimary {
		m.Role.Set(1)
		return
	}
	m.Role.Set(0)
}

// RecordObjectWrite increments ManagedObjectWrites for outcome.
func (m *Metrics) RecordObjectWrite(outcome Outcome) {
	m.ManagedObjectWrites.WithLabelValues(string(outcome)).Inc()
}
