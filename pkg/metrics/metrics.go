package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream document fetch metrics
	FetchesTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	FetchesInFlight prometheus.Gauge

	// View rendering metrics
	ViewRendersTotal   *prometheus.CounterVec
	ViewRenderDuration *prometheus.HistogramVec

	// Aggregation pipeline metrics
	BucketsMergedTotal  *prometheus.CounterVec
	EntriesDroppedTotal *prometheus.CounterVec

	// Report export metrics
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_fetches_total",
				Help: "Total number of upstream marketing-data fetches",
			},
			[]string{"view", "status"},
		),

		FetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_fetch_duration_seconds",
				Help:    "Upstream marketing-data fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view"},
		),

		FetchesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "upstream_fetches_in_flight",
				Help: "Number of upstream fetches currently in flight",
			},
		),

		ViewRendersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_renders_total",
				Help: "Total number of view datasets rendered",
			},
			[]string{"view"},
		),

		ViewRenderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "view_render_duration_seconds",
				Help:    "View dataset render duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"view"},
		),

		BucketsMergedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buckets_merged_total",
				Help: "Total number of merged buckets produced per dimension",
			},
			[]string{"dimension"},
		),

		EntriesDroppedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakdown_entries_dropped_total",
				Help: "Total number of breakdown entries dropped during aggregation",
			},
			[]string{"dimension", "reason"},
		),

		ExportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_exports_total",
				Help: "Total number of report exports to the sink",
			},
			[]string{"view", "status"},
		),

		ExportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_export_duration_seconds",
				Help:    "Report export duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Upstream fetch metrics
func (m *Metrics) RecordFetch(view, status string, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(view, status).Inc()
	m.FetchDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// View render metrics
func (m *Metrics) RecordViewRender(view string, duration time.Duration) {
	m.ViewRendersTotal.WithLabelValues(view).Inc()
	m.ViewRenderDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// Merged bucket counter
func (m *Metrics) RecordBucketsMerged(dimension string, count int) {
	m.BucketsMergedTotal.WithLabelValues(dimension).Add(float64(count))
}

// Dropped entry counter
func (m *Metrics) RecordEntryDropped(dimension, reason string) {
	m.EntriesDroppedTotal.WithLabelValues(dimension, reason).Inc()
}

// Report export metrics
func (m *Metrics) RecordExport(view, status string, duration time.Duration) {
	m.ExportsTotal.WithLabelValues(view, status).Inc()
	m.ExportDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// Fetches in flight counter
func (m *Metrics) IncFetchesInFlight() {
	m.FetchesInFlight.Inc()
}

// Fetches in flight counter
func (m *Metrics) DecFetchesInFlight() {
	m.FetchesInFlight.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
