package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Render metrics
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartwash_renders_total",
			Help: "Total dashboard and recommendation renders by verdict",
		},
		[]string{"verdict"},
	)

	RenderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smartwash_render_failures_total",
			Help: "Renders that failed because the dataset could not be loaded",
		},
	)

	// Dataset metrics
	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartwash_dataset_loads_total",
			Help: "Dataset loads from the underlying source",
		},
		[]string{"source", "result"},
	)

	DatasetLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartwash_dataset_load_duration_seconds",
			Help:    "Time spent loading the dataset from its source",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"source"},
	)

	DatasetCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartwash_dataset_cache_hits_total",
			Help: "Dataset snapshot cache hits by tier",
		},
		[]string{"tier"},
	)

	DatasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartwash_dataset_records",
			Help: "Number of usage records in the last loaded snapshot",
		},
	)

	// Alarm metrics
	AlarmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartwash_alarm_requests_total",
			Help: "Alarm affordance requests by strategy and detected platform",
		},
		[]string{"strategy", "platform"},
	)
)

func init() {
	prometheus.MustRegister(
		RendersTotal,
		RenderFailures,
		DatasetLoadsTotal,
		DatasetLoadDuration,
		DatasetCacheHits,
		DatasetRecords,
		AlarmRequestsTotal,
	)
}
