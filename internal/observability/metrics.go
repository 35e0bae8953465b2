package observability

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters and histograms for one pipeline run.
// Each run gets its own registry; the process is one-shot, so metrics are
// exported with WriteTextfile (Prometheus textfile-collector format) rather
// than scraped from an endpoint.
type Metrics struct {
	registry *prometheus.Registry

	RecordsLoaded     prometheus.Counter
	DateParseFailures prometheus.Counter
	RecordsDropped    *prometheus.CounterVec // labels: reason={before_cutoff,no_impact}
	RecordsKept       prometheus.Counter

	LabelsRewritten prometheus.Counter
	LabelsUnmatched prometheus.Counter
	UndefinedCosts  prometheus.Counter
	EventTypeGroups prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage
}

// NewMetrics creates and registers all pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_loaded_total",
			Help:      "Total rows read from the events dataset.",
		}),
		DateParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "date_parse_failures_total",
			Help:      "Rows whose begin date would not parse (loaded with year 0).",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_dropped_total",
			Help:      "Rows removed by the filter stage, by reason.",
		}, []string{"reason"}),
		RecordsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_kept_total",
			Help:      "Rows surviving the filter stage.",
		}),
		LabelsRewritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "labels_rewritten_total",
			Help:      "Event-type labels changed by the rewrite rule chain.",
		}),
		LabelsUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "labels_unmatched_total",
			Help:      "Records whose label found no acceptably close vocabulary entry.",
		}),
		UndefinedCosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "undefined_costs_total",
			Help:      "Damage values left undefined by an unknown exponent code.",
		}),
		EventTypeGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "event_type_groups",
			Help:      "Distinct event-type groups after aggregation.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.RecordsLoaded,
		m.DateParseFailures,
		m.RecordsDropped,
		m.RecordsKept,
		m.LabelsRewritten,
		m.LabelsUnmatched,
		m.UndefinedCosts,
		m.EventTypeGroups,
		m.StageDuration,
	)

	return m
}

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// exposition format, for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics textfile: %w", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			f.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return f.Close()
}
