// Package metrics provides Prometheus metrics for the QC pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for one pipeline process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingest metrics
	datasetsLoaded        prometheus.Counter
	recordsLoaded         prometheus.Counter
	columnsNormalized     prometheus.Counter
	normalizationFailures prometheus.Counter

	// Validation metrics
	checksRun     prometheus.Counter
	checkOutcomes *prometheus.CounterVec

	// Trajectory metrics
	individualsTracked prometheus.Gauge
	transitionsCounted prometheus.Counter

	// Run metrics
	runDuration prometheus.Histogram
}

// Global manager on a custom registry, so the default Go collectors do
// not pollute batch-run output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hdssqc",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.datasetsLoaded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "datasets_loaded_total",
		Help: "Number of datasets read into memory.",
	})
	m.recordsLoaded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_loaded_total",
		Help: "Number of event records built from raw tables.",
	})
	m.columnsNormalized = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "date_columns_normalized_total",
		Help: "Number of raw date columns normalized successfully.",
	})
	m.normalizationFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "date_columns_rejected_total",
		Help: "Number of raw date columns rejected wholesale.",
	})
	m.checksRun = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "checks_run_total",
		Help: "Number of record checks executed.",
	})
	m.checkOutcomes = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "check_outcomes_total",
		Help: "Per-check record outcomes.",
	}, []string{"check", "outcome"})
	m.individualsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "individuals_tracked",
		Help: "Number of individuals in the most recent run.",
	})
	m.transitionsCounted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "transitions_counted_total",
		Help: "Number of intra-individual event transitions accumulated.",
	})
	m.runDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "run_duration_seconds",
		Help:    "Wall-clock duration of full pipeline runs.",
		Buckets: m.histogramBuckets,
	})
}

// Registry returns the custom registry backing the global manager,
// for gathering in tests and report output.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

// DatasetLoaded records one dataset read.
func DatasetLoaded() { globalManager.DatasetLoaded() }

// RecordsLoaded records n event records built from a raw table.
func RecordsLoaded(n int) { globalManager.RecordsLoaded(n) }

// ColumnNormalized records one successfully normalized date column.
func ColumnNormalized() { globalManager.ColumnNormalized() }

// NormalizationFailure records one rejected date column.
func NormalizationFailure() { globalManager.NormalizationFailure() }

// CheckCompleted records one executed check and its outcome tallies.
func CheckCompleted(name string, pass, fail, inapplicable int) {
	globalManager.CheckCompleted(name, pass, fail, inapplicable)
}

// IndividualsTracked records the individual count of the current run.
func IndividualsTracked(n int) { globalManager.IndividualsTracked(n) }

// TransitionsCounted records n accumulated transitions.
func TransitionsCounted(n int) { globalManager.TransitionsCounted(n) }

// ObserveRunDuration records the wall-clock duration of one run.
func ObserveRunDuration(d time.Duration) { globalManager.ObserveRunDuration(d) }

// Manager methods.

// DatasetLoaded records one dataset read.
func (m *Manager) DatasetLoaded() {
	if m.enabled {
		m.datasetsLoaded.Inc()
	}
}

// RecordsLoaded records n event records built from a raw table.
func (m *Manager) RecordsLoaded(n int) {
	if m.enabled {
		m.recordsLoaded.Add(float64(n))
	}
}

// ColumnNormalized records one successfully normalized date column.
func (m *Manager) ColumnNormalized() {
	if m.enabled {
		m.columnsNormalized.Inc()
	}
}

// NormalizationFailure records one rejected date column.
func (m *Manager) NormalizationFailure() {
	if m.enabled {
		m.normalizationFailures.Inc()
	}
}

// CheckCompleted records one executed check and its outcome tallies.
func (m *Manager) CheckCompleted(name string, pass, fail, inapplicable int) {
	if !m.enabled {
		return
	}
	m.checksRun.Inc()
	m.checkOutcomes.WithLabelValues(name, "pass").Add(float64(pass))
	m.checkOutcomes.WithLabelValues(name, "fail").Add(float64(fail))
	m.checkOutcomes.WithLabelValues(name, "inapplicable").Add(float64(inapplicable))
}

// IndividualsTracked records the individual count of the current run.
func (m *Manager) IndividualsTracked(n int) {
	if m.enabled {
		m.individualsTracked.Set(float64(n))
	}
}

// TransitionsCounted records n accumulated transitions.
func (m *Manager) TransitionsCounted(n int) {
	if m.enabled {
		m.transitionsCounted.Add(float64(n))
	}
}

// ObserveRunDuration records the wall-clock duration of one run.
func (m *Manager) ObserveRunDuration(d time.Duration) {
	if m.enabled {
		m.runDuration.Observe(d.Seconds())
	}
}
