package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "career_assessment"

// Metrics exposes Prometheus collectors for the assessment session lifecycle.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessionsCreated  *prometheus.CounterVec
	sessionsFinished *prometheus.CounterVec
	sessionsLive     prometheus.Gauge
	answers          *prometheus.CounterVec
	autoAdvances     *prometheus.CounterVec
	operations       *prometheus.HistogramVec
}

// MustNewMetrics registers the collectors with reg and panics on conflict.
// Tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Assessment sessions created, by kind.",
		}, []string{"kind"}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "finished_total",
			Help:      "Assessment sessions that reached a terminal state or were evicted.",
		}, []string{"kind", "outcome"}),
		sessionsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "live",
			Help:      "Sessions currently held in the registry.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "answers_total",
			Help:      "Accepted answers, by kind.",
		}, []string{"kind"}),
		autoAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "auto_advances_total",
			Help:      "Countdown driven question advances, by kind.",
		}, []string{"kind"}),
		operations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}

	reg.MustRegister(m.sessionsCreated, m.sessionsFinished, m.sessionsLive, m.answers, m.autoAdvances, m.operations)
	return m
}

func (m *Metrics) SessionCreated(kind string) {
	if m == nil {
		return
	}
	m.sessionsCreated.WithLabelValues(kind).Inc()
	m.sessionsLive.Inc()
}

// SessionFinished records a submitted, canceled or evicted session.
func (m *Metrics) SessionFinished(kind, outcome string) {
	if m == nil {
		return
	}
	m.sessionsFinished.WithLabelValues(kind, outcome).Inc()
}

// SessionRemoved decrements the live gauge when the registry drops a session.
func (m *Metrics) SessionRemoved() {
	if m == nil {
		return
	}
	m.sessionsLive.Dec()
}

func (m *Metrics) AnswerRecorded(kind string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(kind).Inc()
}

func (m *Metrics) AutoAdvanced(kind string) {
	if m == nil {
		return
	}
	m.autoAdvances.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveOperation(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, status).Observe(duration.Seconds())
}
