// Package metrics provides Prometheus metrics for the chess tournament recorder.
package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors of the recorder.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Tournament lifecycle
	tournamentsCreated prometheus.Counter
	playersRegistered  prometheus.Counter
	roundsAdvanced     prometheus.Counter
	resultsRecorded    *prometheus.CounterVec
	ledgerCorrections  prometheus.Counter
	tournamentsLoaded  *prometheus.GaugeVec

	// Pairing quality
	pairingRematches prometheus.Counter
	pairingUnpaired  prometheus.Counter
	pairingLatency   prometheus.Histogram

	// Persistence
	persistenceOps     *prometheus.CounterVec
	persistenceLatency *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry *prometheus.Registry //nolint:gochecknoglobals // intentional global for metrics registry

// Label names used by the labelled collectors; constant labels may not reuse them.
var variableLabels = []string{"outcome", "status", "op", "component", "error_type"} //nolint:gochecknoglobals

var metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	if err := Init(); err != nil {
		panic(err)
	}
}

// Init replaces the global manager with one built from opts on a fresh
// private registry. Call it before recording anything; values recorded on
// the previous registry are dropped.
func Init(opts ...Option) error {
	registry := prometheus.NewRegistry()
	m := newManager(append(slices.Clip(opts), WithPrometheusRegistry(registry))...)
	if err := m.validate(); err != nil {
		return err
	}
	m.initializeMetrics()
	customRegistry, globalManager = registry, m
	return nil
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := newManager(opts...)
	m.initializeMetrics()
	return m
}

func newManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chess",
		subsystem:        "tournament",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) validate() error {
	if !metricNamePattern.MatchString(m.namespace) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidOption, m.namespace)
	}
	if m.subsystem != "" && !metricNamePattern.MatchString(m.subsystem) {
		return fmt.Errorf("%w: subsystem %q", ErrInvalidOption, m.subsystem)
	}
	for i := 1; i < len(m.histogramBuckets); i++ {
		if m.histogramBuckets[i] <= m.histogramBuckets[i-1] {
			return fmt.Errorf("%w: histogram buckets must increase, got %v", ErrInvalidOption, m.histogramBuckets)
		}
	}
	for name := range m.customLabels {
		if !metricNamePattern.MatchString(name) || strings.HasPrefix(name, "__") || slices.Contains(variableLabels, name) {
			return fmt.Errorf("%w: label name %q", ErrInvalidOption, name)
		}
	}
	return nil
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tournamentsCreated = auto.NewCounter(m.counterOpts("created_total", "Total number of tournaments created"))
	m.playersRegistered = auto.NewCounter(m.counterOpts("players_registered_total", "Total number of player registrations"))
	m.roundsAdvanced = auto.NewCounter(m.counterOpts("rounds_advanced_total", "Total number of rounds paired"))
	m.resultsRecorded = auto.NewCounterVec(
		m.counterOpts("results_recorded_total", "Total number of match results entered, by outcome"),
		[]string{"outcome"},
	)
	m.ledgerCorrections = auto.NewCounter(m.counterOpts("ledger_corrections_total", "Total number of explicit ledger corrections"))
	m.tournamentsLoaded = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "loaded",
		Help:        "Tournaments found in the data directory, by status",
		ConstLabels: m.customLabels,
	}, []string{"status"})

	m.pairingRematches = auto.NewCounter(m.counterOpts("pairing_rematches_total", "Pairings that fell back to a rematch"))
	m.pairingUnpaired = auto.NewCounter(m.counterOpts("pairing_unpaired_total", "Players left without an opponent in a round"))
	m.pairingLatency = auto.NewHistogram(m.histogramOpts("pairing_latency_milliseconds", "Histogram of pairing latency in milliseconds"))

	m.persistenceOps = auto.NewCounterVec(
		m.counterOpts("persistence_operations_total", "Persistence operations by operation and status"),
		[]string{"op", "status"},
	)
	m.persistenceLatency = auto.NewHistogramVec(
		m.histogramOpts("persistence_latency_milliseconds", "Histogram of persistence latency in milliseconds"),
		[]string{"op"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and type"),
		[]string{"component", "error_type"},
	)
}

// RecordTournamentCreated increments the created tournaments counter.
func RecordTournamentCreated() {
	globalManager.tournamentsCreated.Inc()
}

// RecordPlayerRegistered increments the registrations counter.
func RecordPlayerRegistered() {
	globalManager.playersRegistered.Inc()
}

// RecordRoundAdvanced records a paired round with its rematch fallbacks and unpaired players.
func RecordRoundAdvanced(rematches, unpaired int) {
	globalManager.roundsAdvanced.Inc()
	globalManager.pairingRematches.Add(float64(rematches))
	globalManager.pairingUnpaired.Add(float64(unpaired))
}

// RecordPairingLatency records the time spent pairing a round.
func RecordPairingLatency(latencyMs float64) {
	globalManager.pairingLatency.Observe(latencyMs)
}

// RecordResult increments the result counter for outcome.
func RecordResult(outcome string) {
	globalManager.resultsRecorded.WithLabelValues(outcome).Inc()
}

// RecordLedgerCorrection increments the correction counter.
func RecordLedgerCorrection() {
	globalManager.ledgerCorrections.Inc()
}

// UpdateTournamentCounts sets the loaded tournaments gauge.
func UpdateTournamentCounts(active, completed int) {
	globalManager.tournamentsLoaded.WithLabelValues("active").Set(float64(active))
	globalManager.tournamentsLoaded.WithLabelValues("completed").Set(float64(completed))
}

// RecordPersistence records a persistence operation and its latency.
func RecordPersistence(op, status string, latencyMs float64) {
	globalManager.persistenceOps.WithLabelValues(op, status).Inc()
	globalManager.persistenceLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry to path in the text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
