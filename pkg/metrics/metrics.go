package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

const namespace = "gameplay_mcp"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// DefaultBuckets are the histogram buckets for tool and upstream latency (in seconds).
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds the gateway's collectors.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls        *prometheus.CounterVec
	toolDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	samples          *prometheus.GaugeVec
	skippedLines     *prometheus.CounterVec
	redefinitions    *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   DefaultBuckets,
		}, []string{"tool"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of outbound upstream requests.",
		}, []string{"upstream", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Outbound upstream request latency.",
			Buckets:   DefaultBuckets,
		}, []string{"upstream"}),
		samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exposition_samples",
			Help:      "Number of samples in the most recently parsed exposition document.",
		}, []string{"source"}),
		skippedLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exposition_skipped_lines_total",
			Help:      "Total number of malformed exposition lines skipped while parsing.",
		}, []string{"source"}),
		redefinitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exposition_redefinitions_total",
			Help:      "Total number of metric families redefined within a single document.",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.toolCalls,
		m.toolDuration,
		m.upstreamRequests,
		m.upstreamDuration,
		m.samples,
		m.skippedLines,
		m.redefinitions,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTool records one tool invocation.
func (m *Metrics) ObserveTool(tool string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveUpstream records one outbound request. A status of 0 means no
// response was received.
func (m *Metrics) ObserveUpstream(upstream string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := OutcomeError
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(upstream, code).Inc()
	m.upstreamDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

// ObserveDocument records the size and parse anomalies of a document.
func (m *Metrics) ObserveDocument(source string, doc *exposition.Document) {
	if m == nil || doc == nil {
		return
	}
	m.samples.WithLabelValues(source).Set(float64(doc.SampleCount()))
	m.skippedLines.WithLabelValues(source).Add(float64(doc.Diagnostics.SkippedLines))
	m.redefinitions.WithLabelValues(source).Add(float64(len(doc.Diagnostics.Redefined)))
}
