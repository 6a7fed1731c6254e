package service

import (
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"thermo-guard/internal/features/coordinator/domain"
)

// MetricsCollector manages Prometheus metrics for the coordinator. A nil
// collector is valid and records nothing, which keeps tests free of registry
// bookkeeping.
type MetricsCollector struct {
	tickCounter       prometheus.Counter
	transitionCounter *prometheus.CounterVec
	failureCounter    *prometheus.CounterVec
	stateGauge        *prometheus.GaugeVec
	registered        bool
	mu                sync.Mutex
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		tickCounter: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "thermoguard_ticks_total",
				Help: "Count of control loop ticks evaluated",
			},
		),
		transitionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thermoguard_state_transitions_total",
				Help: "Count of cluster state transitions by source and target state",
			},
			[]string{"from_state", "to_state"},
		),
		failureCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thermoguard_procedure_failures_total",
				Help: "Count of failed shutdown and power-on procedures",
			},
			[]string{"procedure"},
		),
		stateGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "thermoguard_cluster_state",
				Help: "Current cluster state (1 for the active state, 0 otherwise)",
			},
			[]string{"state"},
		),
	}
}

// Register registers all metrics with the given registry exactly once.
func (m *MetricsCollector) Register(registry prometheus.Registerer) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return
	}

	collectors := []prometheus.Collector{
		m.tickCounter,
		m.transitionCounter,
		m.failureCounter,
		m.stateGauge,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			log.Printf("Failed to register metric: %v", err)
		}
	}
	m.registered = true
}

// RecordTick counts one evaluated control loop tick.
func (m *MetricsCollector) RecordTick() {
	if m == nil {
		return
	}
	m.tickCounter.Inc()
}

// RecordTransition counts one cluster state transition.
func (m *MetricsCollector) RecordTransition(from, to domain.ClusterState) {
	if m == nil {
		return
	}
	m.transitionCounter.WithLabelValues(string(from), string(to)).Inc()
}

// RecordProcedureFailure counts one failed shutdown or power-on procedure.
func (m *MetricsCollector) RecordProcedureFailure(procedure string) {
	if m == nil {
		return
	}
	m.failureCounter.WithLabelValues(procedure).Inc()
}

// RecordState sets the state gauge so exactly one state reads 1.
func (m *MetricsCollector) RecordState(state domain.ClusterState) {
	if m == nil {
		return
	}
	for _, s := range []domain.ClusterState{domain.ClusterRunning, domain.ClusterShutdown} {
		value := 0.0
		if s == state {
			value = 1.0
		}
		m.stateGauge.WithLabelValues(string(s)).Set(value)
	}
}
