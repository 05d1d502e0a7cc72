// Package observability provides Prometheus metrics for the wave director.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the director.
type Metrics struct {
	// Scheduler metrics
	EventsActivated     *prometheus.CounterVec
	EventsRescheduled   *prometheus.CounterVec
	EventsScheduled     *prometheus.CounterVec
	EventsOverdueForced *prometheus.CounterVec
	EventsEvicted       *prometheus.CounterVec
	EventsExpired       *prometheus.CounterVec
	ActiveEvents        prometheus.Gauge
	PendingEvents       prometheus.Gauge

	// Wave metrics
	CurrentWave      prometheus.Gauge
	EnemiesComposed  prometheus.Counter
	WaveEnemyCount   prometheus.Histogram
	HealthMultiplier prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on reg.
// A nil reg uses a private registry, which keeps repeated construction in tests safe.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "wave_director"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		EventsActivated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_activated_total",
			Help:      "Total number of global events activated",
		}, []string{"type"}),
		EventsRescheduled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_rescheduled_total",
			Help:      "Total number of activations deferred by a conflict",
		}, []string{"type"}),
		EventsScheduled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_scheduled_total",
			Help:      "Total number of events placed on the schedule",
		}, []string{"type"}),
		EventsOverdueForced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_overdue_forced_total",
			Help:      "Total number of overdue events forced onto the next wave",
		}, []string{"type"}),
		EventsEvicted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_evicted_total",
			Help:      "Total number of active events evicted by a higher priority event",
		}, []string{"type"}),
		EventsExpired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "events_expired_total",
			Help:      "Total number of active events that ran their full duration",
		}, []string{"type"}),
		ActiveEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "active_events",
			Help:      "Number of currently active global events",
		}),
		PendingEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "pending_events",
			Help:      "Number of scheduled events waiting for their wave",
		}),
		CurrentWave: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wave",
			Name:      "current",
			Help:      "Last composed wave number",
		}),
		EnemiesComposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wave",
			Name:      "enemies_composed_total",
			Help:      "Total number of enemies requested from the spawner",
		}),
		WaveEnemyCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wave",
			Name:      "enemy_count",
			Help:      "Enemy count per composed wave",
			Buckets:   []float64{1, 5, 10, 20, 40, 80, 160},
		}),
		HealthMultiplier: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wave",
			Name:      "health_multiplier",
			Help:      "Final enemy health multiplier of the last composed wave",
		}),
	}
}

// Handler returns an HTTP handler serving the metrics of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordActivated increments the activation counter.
func (m *Metrics) RecordActivated(eventType string) {
	if m == nil {
		return
	}
	m.EventsActivated.WithLabelValues(eventType).Inc()
}

// RecordRescheduled increments the conflict reschedule counter.
func (m *Metrics) RecordRescheduled(eventType string) {
	if m == nil {
		return
	}
	m.EventsRescheduled.WithLabelValues(eventType).Inc()
}

// RecordScheduled records a scheduling decision; forced marks an overdue override.
func (m *Metrics) RecordScheduled(eventType string, forced bool) {
	if m == nil {
		return
	}
	m.EventsScheduled.WithLabelValues(eventType).Inc()
	if forced {
		m.EventsOverdueForced.WithLabelValues(eventType).Inc()
	}
}

// RecordEvicted increments the eviction counter.
func (m *Metrics) RecordEvicted(eventType string) {
	if m == nil {
		return
	}
	m.EventsEvicted.WithLabelValues(eventType).Inc()
}

// RecordExpired increments the expiry counter.
func (m *Metrics) RecordExpired(eventType string) {
	if m == nil {
		return
	}
	m.EventsExpired.WithLabelValues(eventType).Inc()
}

// UpdateQueue sets the active and pending gauges.
func (m *Metrics) UpdateQueue(active, pending int) {
	if m == nil {
		return
	}
	m.ActiveEvents.Set(float64(active))
	m.PendingEvents.Set(float64(pending))
}

// RecordWave records the outcome of one composed wave.
func (m *Metrics) RecordWave(wave, enemyCount int, healthMultiplier float64) {
	if m == nil {
		return
	}
	m.CurrentWave.Set(float64(wave))
	m.EnemiesComposed.Add(float64(enemyCount))
	m.WaveEnemyCount.Observe(float64(enemyCount))
	m.HealthMultiplier.Set(healthMultiplier)
}
