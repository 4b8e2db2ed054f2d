// Package metrics exposes Prometheus instrumentation for prediction boards and
// realtime connections.
// file: metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"league-predictor/models"
)

const namespace = "league_predictor"

// Collector holds every metric the service exports. A nil *Collector is valid and
// records nothing.
type Collector struct {
	boardEvents   *prometheus.CounterVec
	invalidOps    *prometheus.CounterVec
	wsConnections prometheus.Gauge
	wsDropped     prometheus.Counter
}

// New creates the collectors and registers them on reg (prometheus.DefaultRegisterer if nil).
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		boardEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "events_total",
			Help:      "Successful board mutations by kind (placed, moved, swapped, unplaced, reset, shuffled).",
		}, []string{"kind"}),
		invalidOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "invalid_operations_total",
			Help:      "Rejected board operations by the action that issued them.",
		}, []string{"action"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections",
			Help:      "Open websocket connections.",
		}),
		wsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "rate_limited_messages_total",
			Help:      "Inbound websocket messages dropped by the per-connection rate limit.",
		}),
	}
	reg.MustRegister(c.boardEvents, c.invalidOps, c.wsConnections, c.wsDropped)
	return c
}

// RegisterActiveWidgets exports a gauge that calls count on every scrape.
func (c *Collector) RegisterActiveWidgets(reg prometheus.Registerer, count func() int) {
	if c == nil {
		return
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "widgets",
		Name:      "active",
		Help:      "Mounted prediction widgets.",
	}, func() float64 { return float64(count()) }))
}

// ObserveBoardEvent is a board listener.
func (c *Collector) ObserveBoardEvent(ev models.BoardEvent) {
	if c == nil {
		return
	}
	c.boardEvents.WithLabelValues(string(ev.Kind)).Inc()
}

// InvalidOperation counts one rejected action.
func (c *Collector) InvalidOperation(action string) {
	if c == nil {
		return
	}
	c.invalidOps.WithLabelValues(action).Inc()
}

func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.wsConnections.Inc()
}

func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.wsConnections.Dec()
}

func (c *Collector) MessageDropped() {
	if c == nil {
		return
	}
	c.wsDropped.Inc()
}
