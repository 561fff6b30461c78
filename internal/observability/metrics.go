// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the stream client.
type Metrics struct {
	// Connection lifecycle
	Attempts    prometheus.Counter
	Connects    prometheus.Counter
	Disconnects prometheus.Counter
	Reconnects  prometheus.Counter
	Shutdowns   prometheus.Counter
	Connected   prometheus.Gauge
	State       *prometheus.GaugeVec

	// Stream
	MessagesReceived prometheus.Counter
	Errors           *prometheus.CounterVec
	HighestSlotSeen  prometheus.Gauge

	// Latency
	ReconnectDelay   prometheus.Histogram
	HandshakeLatency prometheus.Histogram
	MessageLatency   prometheus.Histogram

	// Health
	LastMessage prometheus.Gauge

	highestSlot atomic.Uint64
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "solana_trade_stream"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "attempts_total",
			Help:      "Total number of connection attempts started",
		}),
		Connects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "connects_total",
			Help:      "Total number of successful handshakes",
		}),
		Disconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "disconnects_total",
			Help:      "Total number of streaming sessions that ended",
		}),
		Reconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "reconnects_total",
			Help:      "Total number of reconnect waits scheduled",
		}),
		Shutdowns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "shutdowns_total",
			Help:      "Total number of sessions ended by a shutdown request",
		}),
		Connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "connected",
			Help:      "1 while a session is streaming",
		}),
		State: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "state",
			Help:      "Current session state (1 for the active state)",
		}, []string{"state"}),

		MessagesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_received_total",
			Help:      "Total number of events decoded and dispatched",
		}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "errors_total",
			Help:      "Total number of errors by kind",
		}, []string{"kind"}),
		HighestSlotSeen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		ReconnectDelay: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "reconnect_delay_seconds",
			Help:      "Wait before each reconnect attempt in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		HandshakeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "handshake_latency_seconds",
			Help:      "Websocket handshake latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		MessageLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "message_latency_seconds",
			Help:      "Decode and dispatch latency per frame in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		LastMessage: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_message_timestamp",
			Help:      "Unix timestamp of the last dispatched event",
		}),
	}
}

// HandlerFor returns a /metrics handler serving only gatherer.
func HandlerFor(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordError counts an error of the given kind. Safe on a nil receiver.
func (m *Metrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(kind).Inc()
}

// SetState marks state as the active one among all.
func (m *Metrics) SetState(state string, all []string) {
	if m == nil {
		return
	}
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1
		}
		m.State.WithLabelValues(s).Set(v)
	}
}

// RecordMessage records one dispatched event.
func (m *Metrics) RecordMessage(slot uint64, seconds float64, unix int64) {
	if m == nil {
		return
	}
	m.MessagesReceived.Inc()
	m.MessageLatency.Observe(seconds)
	m.LastMessage.Set(float64(unix))
	for {
		cur := m.highestSlot.Load()
		if slot <= cur {
			return
		}
		if m.highestSlot.CompareAndSwap(cur, slot) {
			m.HighestSlotSeen.Set(float64(slot))
			return
		}
	}
}

// RecordConnect records a completed handshake.
func (m *Metrics) RecordConnect(seconds float64) {
	if m == nil {
		return
	}
	m.Connects.Inc()
	m.HandshakeLatency.Observe(seconds)
}

// RecordAttempt records the start of an attempt.
func (m *Metrics) RecordAttempt() {
	if m == nil {
		return
	}
	m.Attempts.Inc()
}

// RecordStreaming flips the connected gauge.
func (m *Metrics) RecordStreaming(on bool) {
	if m == nil {
		return
	}
	if on {
		m.Connected.Set(1)
		return
	}
	m.Connected.Set(0)
}

// RecordDisconnect records the end of a streaming session.
func (m *Metrics) RecordDisconnect(shutdown bool) {
	if m == nil {
		return
	}
	m.Disconnects.Inc()
	if shutdown {
		m.Shutdowns.Inc()
	}
}

// RecordReconnect records a scheduled reconnect wait.
func (m *Metrics) RecordReconnect(seconds float64) {
	if m == nil {
		return
	}
	m.Reconnects.Inc()
	m.ReconnectDelay.Observe(seconds)
}
