package telemetry

import (
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/observability/prometrics"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// New assembles an Observability provider backed by the supplied tracer, logger, and metrics.
func New(tracer observability.Tracer, logger observability.Logger, metrics observability.Metrics) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	if metrics == nil {
		metrics = observability.NopMetrics()
	}
	return &provider{tracer: tracer, logger: logger, metrics: metrics}
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }

type metricSet struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *metricSet) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok {
		return c
	}
	return observability.NopMetrics().Counter(name)
}

func (m *metricSet) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok {
		return h
	}
	return observability.NopMetrics().Histogram(name)
}

// StandardMetrics declares the RED instruments shared by use cases and the HTTP layer.
func StandardMetrics(reg prometrics.Registry) observability.Metrics {
	return &metricSet{
		counters: map[observability.MetricKey]observability.Counter{
			observability.MUsecaseRequests: reg.Counter(
				string(observability.MUsecaseRequests),
				"Total number of use case invocations.",
				"use_case", "outcome",
			),
			observability.MHTTPRequests: reg.Counter(
				string(observability.MHTTPRequests),
				"Total number of HTTP requests.",
				"method", "route", "status",
			),
			observability.MExternalRequests: reg.Counter(
				string(observability.MExternalRequests),
				"Total number of calls to external peers.",
				"peer", "endpoint", "outcome",
			),
		},
		histograms: map[observability.MetricKey]observability.Histogram{
			observability.MUsecaseDuration: reg.Histogram(
				string(observability.MUsecaseDuration),
				"Duration of use case execution in seconds.",
				prometheus.DefBuckets,
				"use_case",
			),
			observability.MHTTPRequestDuration: reg.Histogram(
				string(observability.MHTTPRequestDuration),
				"Duration of HTTP request handling in seconds.",
				prometheus.DefBuckets,
				"method", "route", "status",
			),
			observability.MExternalRequestDuration: reg.Histogram(
				string(observability.MExternalRequestDuration),
				"Duration of external calls in seconds.",
				prometheus.DefBuckets,
				"peer", "endpoint",
			),
		},
	}
}
