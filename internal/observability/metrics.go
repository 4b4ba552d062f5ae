package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the import
// commands. All import metrics are labelled by source format (fmi, mch, bom).
type Metrics struct {
	ImportsTotal   *prometheus.CounterVec   // labels: format
	ImportErrors   *prometheus.CounterVec   // labels: format
	ImportDuration *prometheus.HistogramVec // labels: format

	// MissingRatio observes the fraction of NaN cells per imported field.
	MissingRatio *prometheus.HistogramVec // labels: format
}

// NewMetrics creates and registers all import metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ImportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "precip_ingest",
			Name:      "imports_total",
			Help:      "Total successful raster imports by source format.",
		}, []string{"format"}),
		ImportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "precip_ingest",
			Name:      "import_errors_total",
			Help:      "Total failed raster imports by source format.",
		}, []string{"format"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "precip_ingest",
			Name:      "import_duration_seconds",
			Help:      "Duration of a complete import call.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"format"}),
		MissingRatio: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "precip_ingest",
			Name:      "missing_ratio",
			Help:      "Fraction of missing (NaN) cells per imported field.",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		}, []string{"format"}),
	}

	prometheus.MustRegister(
		m.ImportsTotal,
		m.ImportErrors,
		m.ImportDuration,
		m.MissingRatio,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ImportsTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "precip_ingest", Name: "imports_total"}, []string{"format"}),
		ImportErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "precip_ingest", Name: "import_errors_total"}, []string{"format"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "precip_ingest", Name: "import_duration_seconds"}, []string{"format"}),
		MissingRatio:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "precip_ingest", Name: "missing_ratio"}, []string{"format"}),
	}
}
