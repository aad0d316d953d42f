// Package metrics instruments calculator.Calculator.Analyze with
// Prometheus counters and a latency histogram. Grounded on
// _examples/brutus-gr-STRATINT-ai/internal/metrics/metrics.go — same
// private-registry-plus-Handler() shape, re-themed from inbound-HTTP
// labels to a single strategy label.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intrinio/option-analytics-go/chain"
)

// AnalyzeCollector exposes Prometheus metrics for calculator analysis
// runs: a counter of rows emitted per strategy, a counter of failed
// runs, and a latency histogram per strategy.
type AnalyzeCollector struct {
	registry    *prometheus.Registry
	runDuration *prometheus.HistogramVec
	rowsEmitted *prometheus.CounterVec
	runFailures *prometheus.CounterVec
}

// NewAnalyzeCollector constructs a collector with its own registry, so
// it can be mounted independently of any other Prometheus exporter in
// the process.
func NewAnalyzeCollector() (*AnalyzeCollector, error) {
	registry := prometheus.NewRegistry()

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "optionanalytics",
		Subsystem: "calculator",
		Name:      "analyze_duration_seconds",
		Help:      "Latency distribution of Calculator.Analyze runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})

	rowsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optionanalytics",
		Subsystem: "calculator",
		Name:      "rows_emitted_total",
		Help:      "Total result rows emitted by Calculator.Analyze.",
	}, []string{"strategy"})

	runFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optionanalytics",
		Subsystem: "calculator",
		Name:      "analyze_failures_total",
		Help:      "Total Calculator.Analyze runs that returned an error.",
	}, []string{"strategy"})

	for _, c := range []prometheus.Collector{runDuration, rowsEmitted, runFailures} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &AnalyzeCollector{
		registry:    registry,
		runDuration: runDuration,
		rowsEmitted: rowsEmitted,
		runFailures: runFailures,
	}, nil
}

// Handler returns an HTTP handler exposing the collector's registry in
// the Prometheus exposition format.
func (c *AnalyzeCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Analyzer is the subset of calculator.Calculator this package
// instruments, kept narrow so metrics doesn't import calculator and
// create a cycle.
type Analyzer interface {
	Analyze(strategy chain.StrategyTag) (int, error)
}

// Observe runs analyzer.Analyze(strategy), recording duration, rows
// emitted, and failures, then returns the underlying call's result
// unchanged.
func (c *AnalyzeCollector) Observe(analyzer Analyzer, strategy chain.StrategyTag) (int, error) {
	start := time.Now()
	n, err := analyzer.Analyze(strategy)
	duration := time.Since(start).Seconds()

	label := string(strategy)
	c.runDuration.WithLabelValues(label).Observe(duration)
	if err != nil {
		c.runFailures.WithLabelValues(label).Inc()
		return n, err
	}
	c.rowsEmitted.WithLabelValues(label).Add(float64(n))
	return n, nil
}
