package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "chat_relay"

// Metrics groups the prometheus collectors updated by the runtime.
type Metrics struct {
	Sessions            prometheus.Gauge
	Delivered           *prometheus.CounterVec
	ValidationErrors    prometheus.Counter
	PersistenceFailures prometheus.Counter
	PresenceTransitions *prometheus.CounterVec
	Mutations           *prometheus.CounterVec
	QueueLength         *prometheus.GaugeVec
	ProcessRSS          prometheus.Gauge
	ProcessCPU          prometheus.Gauge
}

// NewMetrics builds the collectors and registers them on reg.
// Tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Number of registered websocket sessions.",
		}),
		Delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Outbound events queued to a session, by event name.",
		}, []string{"event"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Chat events rejected by validation.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Chat messages delivered but not saved.",
		}),
		PresenceTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_transitions_total",
			Help:      "Presence transitions, by resulting status.",
		}, []string{"status"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Structural mutations, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		QueueLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Sampled length of internal queues.",
		}, []string{"queue"}),
		ProcessRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident set size sampled by the stats worker.",
		}),
		ProcessCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage sampled by the stats worker.",
		}),
	}
	reg.MustRegister(
		m.Sessions,
		m.Delivered,
		m.ValidationErrors,
		m.PersistenceFailures,
		m.PresenceTransitions,
		m.Mutations,
		m.QueueLength,
		m.ProcessRSS,
		m.ProcessCPU,
	)
	return m
}

// NewRegistry returns a registry carrying the go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
