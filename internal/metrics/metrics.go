package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"commodity-forecast/internal/model"
	"commodity-forecast/internal/regressor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commodity_forecast"

// Recorder owns a private registry so several recorders (one per test)
// can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	forecasts    *prometheus.CounterVec
	horizon      prometheus.Histogram
	modelCalls   *prometheus.CounterVec
	observations prometheus.Gauge
}

// New creates a recorder with Go and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
		forecasts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forecasts_total",
				Help:      "Forecast requests by outcome",
			},
			[]string{"outcome"},
		),
		horizon: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_horizon_days",
				Help:      "Requested forecast horizon in days",
				Buckets:   []float64{1, 3, 7, 14, 30, 60, 90, 180, 365},
			},
		),
		modelCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_invocations_total",
				Help:      "Regressor Predict calls by outcome",
			},
			[]string{"outcome"},
		),
		observations: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_observations",
				Help:      "Rows loaded into the historical store",
			},
		),
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordRequest records one served HTTP request. route should be the
// templated route, not the raw URL.
func (r *Recorder) RecordRequest(route, method string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method, statusClass(status)).Observe(d.Seconds())
}

// RecordForecast records a forecast outcome ("ok", "invalid", "not_found",
// "insufficient_history", "error") and, on success, its horizon.
func (r *Recorder) RecordForecast(outcome string, days int) {
	r.forecasts.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		r.horizon.Observe(float64(days))
	}
}

// Instrument wraps m so every Predict call is counted, including calls that
// fail part way through a forecast.
func (r *Recorder) Instrument(m regressor.Regressor) regressor.Regressor {
	return &instrumented{next: m, calls: r.modelCalls}
}

type instrumented struct {
	next  regressor.Regressor
	calls *prometheus.CounterVec
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Predict(ctx context.Context, fv model.FeatureVector) (float64, error) {
	p, err := i.next.Predict(ctx, fv)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.calls.WithLabelValues(outcome).Inc()
	return p, err
}

// SetObservations publishes the size of the loaded store.
func (r *Recorder) SetObservations(n int) {
	r.observations.Set(float64(n))
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
