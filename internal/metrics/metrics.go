// Package metrics exposes Prometheus metrics for find sessions.
//
// A Metrics value owns its own registry so several sessions or tests do not
// collide on the default one. It implements the recorder interfaces of the
// command registry and the index controller.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/findreplace/internal/find/command"
	"github.com/dshills/findreplace/internal/find/index"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "findreplace"

// Metrics holds the find subsystem's collectors.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal     *prometheus.CounterVec
	searchResults     prometheus.Histogram
	searchDuration    prometheus.Histogram
	replacementsTotal prometheus.Counter
	transitionsTotal  *prometheus.CounterVec
	state             *prometheus.GaugeVec
}

// New creates and registers the collectors under namespace. An empty
// namespace means DefaultNamespace.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of find commands executed",
			},
			[]string{"command", "status"},
		),
		searchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of results per search",
				Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 10000},
			},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Search duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		replacementsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replacements_total",
				Help:      "Total number of occurrences replaced",
			},
		),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Find session state transitions",
			},
			[]string{"from", "to"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_state",
				Help:      "1 for the current find session state, 0 otherwise",
			},
			[]string{"state"},
		),
	}

	m.registry.MustRegister(
		m.commandsTotal,
		m.searchResults,
		m.searchDuration,
		m.replacementsTotal,
		m.transitionsTotal,
		m.state,
		collectors.NewGoCollector(),
	)
	m.setState(index.Idle)
	return m
}

var (
	_ command.Recorder = (*Metrics)(nil)
	_ index.Recorder   = (*Metrics)(nil)
)

// RecordCommand counts one command execution.
func (m *Metrics) RecordCommand(name string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.commandsTotal.WithLabelValues(name, status).Inc()
}

// RecordSearch observes one search.
func (m *Metrics) RecordSearch(results int, elapsed time.Duration) {
	m.searchResults.Observe(float64(results))
	m.searchDuration.Observe(elapsed.Seconds())
}

// RecordReplace counts replaced occurrences.
func (m *Metrics) RecordReplace(replaced int) {
	m.replacementsTotal.Add(float64(replaced))
}

// RecordTransition counts a state change and updates the state gauge.
func (m *Metrics) RecordTransition(from, to index.State) {
	m.transitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	m.setState(to)
}

func (m *Metrics) setState(current index.State) {
	for _, s := range []index.State{index.Idle, index.SearchActive, index.Dirty} {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(s.String()).Set(v)
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
