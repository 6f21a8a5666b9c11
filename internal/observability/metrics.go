package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	RefreshesTotal   *prometheus.CounterVec // labels: outcome={success,error}
	RefreshDuration  prometheus.Histogram
	RefresherRunning prometheus.Gauge
	FramesBuilt      prometheus.Counter

	// Open-Meteo client metrics.
	ForecastRequests *prometheus.CounterVec // labels: outcome={success,error}
	ForecastCache    *prometheus.CounterVec // labels: result={hit,miss}
	ForecastDuration prometheus.Histogram
	ForecastRetries  prometheus.Counter

	// Report flow metrics.
	ReportsReceived  prometheus.Counter
	ReportsRelayed   *prometheus.CounterVec // labels: outcome={success,login_error,form_error,error}
	ReportsPublished prometheus.Counter
	RelayEnabled     prometheus.Gauge

	PageViews prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RefreshesTotal,
		m.RefreshDuration,
		m.RefresherRunning,
		m.FramesBuilt,
		m.ForecastRequests,
		m.ForecastCache,
		m.ForecastDuration,
		m.ForecastRetries,
		m.ReportsReceived,
		m.ReportsRelayed,
		m.ReportsPublished,
		m.RelayEnabled,
		m.PageViews,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_refreshes_total",
			Help:      "Forecast loop refresh attempts by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_refresh_duration_seconds",
			Help:      "Duration of a complete fetch-build-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus_dashboard",
			Name:      "refresher_running",
			Help:      "1 when the forecast refresher is active, 0 when shut down.",
		}),
		FramesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "frames_built_total",
			Help:      "Total forecast frames built across all refreshes.",
		}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_requests_total",
			Help:      "Open-Meteo API requests by outcome.",
		}, []string{"outcome"}),
		ForecastCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_cache_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_api_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "forecast_retries_total",
			Help:      "Open-Meteo request attempts beyond the first.",
		}),
		ReportsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "reports_received_total",
			Help:      "Precipitation reports accepted by the API.",
		}),
		ReportsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "reports_relayed_total",
			Help:      "CoCoRaHS relay attempts by outcome.",
		}, []string{"outcome"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "reports_published_total",
			Help:      "Report events published to the reports topic.",
		}),
		RelayEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus_dashboard",
			Name:      "cocorahs_relay_enabled",
			Help:      "1 when the CoCoRaHS relay is enabled, 0 otherwise.",
		}),
		PageViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_dashboard",
			Name:      "page_views_total",
			Help:      "Dashboard page renders.",
		}),
	}
}
