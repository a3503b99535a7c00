package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stage labels.
const (
	StageNormalize = "normalize"
	StageAggregate = "aggregate"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one run
// of either stage. Each Metrics owns its registry so a run's values can be
// pushed as a unit.
type Metrics struct {
	Registry *prometheus.Registry

	// Normalizer.
	RowsKept    prometheus.Counter
	RowsSkipped *prometheus.CounterVec // labels: reason={empty,too_few_fields,malformed_date,too_long}

	// Aggregator.
	RowsAggregated prometheus.Counter
	RowsFiltered   *prometheus.CounterVec // labels: reason

	// One Metrics serves one stage run; the stage is the push grouping key.
	StageDuration prometheus.Histogram
	LastSuccess   prometheus.Gauge

	// Summary sinks.
	SinkWrites *prometheus.CounterVec // labels: sink, outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "rows_kept_total",
			Help:      "Raw lines accepted into the canonical dataset.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "rows_skipped_total",
			Help:      "Raw lines rejected by the normalizer, by reason.",
		}, []string{"reason"}),
		RowsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "rows_aggregated_total",
			Help:      "Canonical rows folded into a monthly bucket.",
		}),
		RowsFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "rows_filtered_total",
			Help:      "Canonical rows left out of the aggregation, by reason.",
		}, []string{"reason"}),
		StageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rain_etl",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of a complete stage run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rain_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful stage run.",
		}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rain_etl",
			Name:      "sink_writes_total",
			Help:      "Summary deliveries to optional sinks, by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}

	m.Registry.MustRegister(
		m.RowsKept,
		m.RowsSkipped,
		m.RowsAggregated,
		m.RowsFiltered,
		m.StageDuration,
		m.LastSuccess,
		m.SinkWrites,
	)

	return m
}
