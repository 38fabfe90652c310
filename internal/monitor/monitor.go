package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	ConnectedClients prometheus.Gauge
	ActiveTables     prometheus.Gauge
	CommandsReceived prometheus.Counter
	RoundsDealt      prometheus.Counter
	CommandLatency   prometheus.Histogram
}

// NewMetrics registers and returns the server metrics
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of connected websocket clients",
		}),
		ActiveTables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_tables",
			Help:      "Number of registered tables",
		}),
		CommandsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_received_total",
			Help:      "Total number of table commands received",
		}),
		RoundsDealt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_dealt_total",
			Help:      "Total number of rounds dealt",
		}),
		CommandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Command handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.ConnectedClients,
		m.ActiveTables,
		m.CommandsReceived,
		m.RoundsDealt,
		m.CommandLatency,
	)

	return m
}

// Monitor exposes server health to Prometheus
type Monitor struct {
	metrics *Metrics
}

// NewMonitor returns a monitor with registered metrics
func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics: NewMetrics(namespace),
	}
}

// StartServer serves /metrics on its own listener
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logrus.WithError(err).Error("metrics server stopped")
		}
	}()
}

// IncClients increments the connected-clients gauge
func (m *Monitor) IncClients() {
	m.metrics.ConnectedClients.Inc()
}

// DecClients decrements the connected-clients gauge
func (m *Monitor) DecClients() {
	m.metrics.ConnectedClients.Dec()
}

// SetActiveTables records the number of registered tables
func (m *Monitor) SetActiveTables(count int) {
	m.metrics.ActiveTables.Set(float64(count))
}

// IncCommands counts a handled table command
func (m *Monitor) IncCommands() {
	m.metrics.CommandsReceived.Inc()
}

// IncRounds counts a dealt round
func (m *Monitor) IncRounds() {
	m.metrics.RoundsDealt.Inc()
}

// ObserveCommandLatency records how long a command took to handle
func (m *Monitor) ObserveCommandLatency(d time.Duration) {
	m.metrics.CommandLatency.Observe(d.Seconds())
}
