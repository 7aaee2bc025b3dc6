// Package metrics provides Prometheus metrics for the draftboard pipeline.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Stage outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline stages
	stageRuns        *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	stagePlayers     *prometheus.GaugeVec
	stageLastSuccess *prometheus.GaugeVec

	// Identity resolution
	identityMatches   *prometheus.CounterVec
	identityUnmatched *prometheus.GaugeVec

	// Valuation
	replacementLevel *prometheus.GaugeVec
	boostsApplied    *prometheus.CounterVec
	playersRanked    prometheus.Gauge

	// Upstream sources
	sourceRequests *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec

	// HTTP board server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftboard",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.stageRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_runs_total",
		Help:      "Pipeline stage runs by stage and outcome",
	}, []string{"stage", "status"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of pipeline stages",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.stagePlayers = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_players",
		Help:      "Number of player records written by the last run of a stage",
	}, []string{"stage"})

	m.stageLastSuccess = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run of a stage",
	}, []string{"stage"})

	m.identityMatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_matches_total",
		Help:      "Canonical slugs bound to a source slug, by source and match method",
	}, []string{"source", "method"})

	m.identityUnmatched = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_unmatched",
		Help:      "Canonical slugs left without a source value in the last run",
	}, []string{"source"})

	m.replacementLevel = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replacement_level_ppg",
		Help:      "Replacement-level expected points per game by roster slot",
	}, []string{"position"})

	m.boostsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_adjustments_total",
		Help:      "Boost and mimic adjustments applied to composite scores",
	}, []string{"kind"})

	m.playersRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_ranked",
		Help:      "Players on the final board",
	})

	m.sourceRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_requests_total",
		Help:      "Upstream source requests by source and outcome",
	}, []string{"source", "status"})

	m.sourceDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_request_duration_seconds",
		Help:      "Upstream source request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Global metric recording functions.

// RecordStageRun records the outcome and duration of a pipeline stage.
func RecordStageRun(stage, status string, seconds float64) {
	globalManager.stageRuns.WithLabelValues(stage, status).Inc()
	globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// MarkStageSuccess stamps the last-success gauge for a stage.
func MarkStageSuccess(stage string, unixSeconds float64) {
	globalManager.stageLastSuccess.WithLabelValues(stage).Set(unixSeconds)
}

// UpdateStagePlayers sets the player count written by a stage.
func UpdateStagePlayers(stage string, count int) {
	globalManager.stagePlayers.WithLabelValues(stage).Set(float64(count))
}

// RecordIdentityMatches adds count bindings made by method for a source.
func RecordIdentityMatches(source, method string, count int) {
	globalManager.identityMatches.WithLabelValues(source, method).Add(float64(count))
}

// UpdateIdentityUnmatched sets the unmatched canonical slug count for a source.
func UpdateIdentityUnmatched(source string, count int) {
	globalManager.identityUnmatched.WithLabelValues(source).Set(float64(count))
}

// UpdateReplacementLevel sets the replacement level for a roster slot.
func UpdateReplacementLevel(position string, ppg float64) {
	globalManager.replacementLevel.WithLabelValues(position).Set(ppg)
}

// RecordScoreAdjustments counts boost tier or mimic applications.
func RecordScoreAdjustments(kind string, count int) {
	globalManager.boostsApplied.WithLabelValues(kind).Add(float64(count))
}

// UpdatePlayersRanked sets the final board size.
func UpdatePlayersRanked(count int) {
	globalManager.playersRanked.Set(float64(count))
}

// RecordSourceRequest records one upstream request.
func RecordSourceRequest(source, status string, seconds float64) {
	globalManager.sourceRequests.WithLabelValues(source, status).Inc()
	globalManager.sourceDuration.WithLabelValues(source).Observe(seconds)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the registry in text exposition format, for the
// node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// Push sends the registry to a Pushgateway under the given job and grouping.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(customRegistry)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
