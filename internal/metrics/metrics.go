package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every bettertiles collector. It is served by the serve
// command and kept separate from the default registry so tests can gather
// it without process-wide collectors getting in the way.
var Registry = prometheus.NewRegistry()

var (
	livestatusQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bettertiles_livestatus_queries_total",
			Help: "Total number of Livestatus queries by table and result.",
		},
		[]string{"table", "result"},
	)

	livestatusQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bettertiles_livestatus_query_duration_seconds",
			Help:    "Latency of Livestatus round trips in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)

	viewRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bettertiles_view_renders_total",
			Help: "Total number of rendered views by layout.",
		},
		[]string{"layout"},
	)

	painterFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bettertiles_painter_failures_total",
			Help: "Painter renders that fell back to a neutral label after a backend error.",
		},
		[]string{"painter"},
	)
)

func init() {
	Registry.MustRegister(Collectors()...)
}

// Collectors returns all bettertiles collectors.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		livestatusQueries,
		livestatusQueryDuration,
		viewRenders,
		painterFailures,
	}
}

// ObserveQuery records one Livestatus round trip.
func ObserveQuery(table string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	livestatusQueries.WithLabelValues(table, result).Inc()
	livestatusQueryDuration.WithLabelValues(table).Observe(seconds)
}

func RecordRender(layout string) {
	viewRenders.WithLabelValues(layout).Inc()
}

func RecordPainterFailure(painter string) {
	painterFailures.WithLabelValues(painter).Inc()
}
