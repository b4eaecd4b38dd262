package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/servicekit"
)

// Metrics holds the prometheus collectors shared by metrics layers.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        *prometheus.GaugeVec
}

// NewMetrics creates and registers the servicekit collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicekit_requests_total",
				Help: "Total number of requests processed, by service and outcome",
			},
			[]string{"service", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "servicekit_request_duration_seconds",
				Help:    "Request duration in seconds, by service",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"service"},
		),
		inFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "servicekit_in_flight_requests",
				Help: "Number of requests currently being processed, by service",
			},
			[]string{"service"},
		),
	}
}

// MetricsLayer records request counts, durations, and in-flight gauges for
// the services it wraps.
type MetricsLayer[Req, Resp any] struct {
	metrics *Metrics
	service string
}

// NewMetricsLayer creates a metrics layer reporting under the given service
// label.
func NewMetricsLayer[Req, Resp any](metrics *Metrics, service string) MetricsLayer[Req, Resp] {
	return MetricsLayer[Req, Resp]{metrics: metrics, service: service}
}

// Wrap implements servicekit.Layer.
func (l MetricsLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *MetricsService[Req, Resp] {
	return &MetricsService[Req, Resp]{inner: inner, metrics: l.metrics, service: l.service}
}

// MetricsService is the service produced by MetricsLayer.
type MetricsService[Req, Resp any] struct {
	inner   servicekit.Service[Req, Resp]
	metrics *Metrics
	service string
}

// Ready implements servicekit.Service.
func (s *MetricsService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *MetricsService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	s.metrics.inFlight.WithLabelValues(s.service).Inc()
	start := time.Now()

	resp, err := s.inner.Invoke(ctx, req)

	s.metrics.requestDuration.WithLabelValues(s.service).Observe(time.Since(start).Seconds())
	s.metrics.inFlight.WithLabelValues(s.service).Dec()

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.requestsTotal.WithLabelValues(s.service, outcome).Inc()

	return resp, err
}
