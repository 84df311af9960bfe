// Package metrics exposes the navigator's Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the collectors. All names are prefixed with "navigator_".
type Metrics struct {
	TicksTotal            prometheus.Counter
	ActionsTotal          *prometheus.CounterVec
	StrategySwitchesTotal *prometheus.CounterVec
	RouteSearchesTotal    *prometheus.CounterVec
	RouteExpandedNodes    prometheus.Histogram
	ActiveSessions        prometheus.Gauge
}

// New registers the collectors once with the default registry and returns them.
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "navigator_ticks_total",
				Help: "Total number of decision ticks processed",
			}),
			ActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "navigator_actions_total",
					Help: "Actions emitted by the decision engine",
				},
				[]string{"action"},
			),
			StrategySwitchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "navigator_strategy_switches_total",
					Help: "Hand-offs between follow-left and follow-right",
				},
				[]string{"to"},
			),
			RouteSearchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "navigator_route_searches_total",
					Help: "Route planning requests by outcome",
				},
				[]string{"outcome"}, // "found", "unreachable" or "cached"
			),
			RouteExpandedNodes: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "navigator_route_expanded_nodes",
				Help:    "Nodes expanded per A* search",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			}),
			ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "navigator_active_sessions",
				Help: "Exploration sessions currently open",
			}),
		}
	})
	return globalMetrics
}

func (m *Metrics) ObserveTick(action string) {
	m.TicksTotal.Inc()
	m.ActionsTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveSwitch(to string) {
	m.StrategySwitchesTotal.WithLabelValues(to).Inc()
}

// ObserveRoute records a search outcome. expanded is ignored for cached routes.
func (m *Metrics) ObserveRoute(outcome string, expanded int) {
	m.RouteSearchesTotal.WithLabelValues(outcome).Inc()
	if outcome != "cached" {
		m.RouteExpandedNodes.Observe(float64(expanded))
	}
}

func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}
