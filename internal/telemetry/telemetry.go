// Package telemetry provides Prometheus metrics and an OpenTelemetry tracer
// for the classification service.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ioozy/scamwatch/internal/domain"
)

const serviceName = "scamwatch"

// Metrics holds all classification Prometheus metrics.
type Metrics struct {
	// Classification outcomes
	ClassificationsTotal *prometheus.CounterVec
	WarningsTotal        prometheus.Counter

	// Rule engine
	RuleMatchDuration prometheus.Histogram
	RuleHits          prometheus.Counter

	// Fallback gateway
	FallbackDuration prometheus.Histogram
	FallbackFailures prometheus.Counter

	// Conversation store
	TrackedConversations prometheus.Gauge
}

// Provider wraps the telemetry handles shared across components.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewProvider initializes telemetry with Prometheus metrics. Metrics are
// registered on the default registry once per process.
func NewProvider() *Provider {
	metricsOnce.Do(func() {
		metrics = initMetrics()
	})
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

// StartSpan begins a trace span. On a nil provider it returns the span
// already carried by ctx, which is a no-op when none is set.
func (p *Provider) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if p == nil || p.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.Tracer.Start(ctx, name)
}

// RecordRuleMatch records one pattern-matcher pass.
func (p *Provider) RecordRuleMatch(duration time.Duration, hits int) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.RuleMatchDuration.Observe(duration.Seconds())
	p.Metrics.RuleHits.Add(float64(hits))
}

// RecordClassification records one produced result.
func (p *Provider) RecordClassification(result *domain.ClassificationResult) {
	if p == nil || p.Metrics == nil || result == nil {
		return
	}
	p.Metrics.ClassificationsTotal.WithLabelValues(
		string(result.Origin),
		result.Stage.String(),
	).Inc()
	if domain.ShouldWarn(result) {
		p.Metrics.WarningsTotal.Inc()
	}
}

// RecordFallback records one fallback round trip.
func (p *Provider) RecordFallback(duration time.Duration, failed bool) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.FallbackDuration.Observe(duration.Seconds())
	if failed {
		p.Metrics.FallbackFailures.Inc()
	}
}

// SetTrackedConversations updates the conversation store gauge.
func (p *Provider) SetTrackedConversations(n int) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.TrackedConversations.Set(float64(n))
}

func initMetrics() *Metrics {
	return &Metrics{
		ClassificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "classifications_total",
				Help:      "Classification results produced, by origin and stage",
			},
			[]string{"origin", "stage"},
		),
		WarningsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "warnings_total",
				Help:      "Results that triggered the high-risk warning policy",
			},
		),
		RuleMatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "rule_match_duration_seconds",
				Help:      "Time spent in one pattern-matcher pass",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
		RuleHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "rule_hits_total",
				Help:      "Pattern-rule hits across all messages",
			},
		),
		FallbackDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "fallback_duration_seconds",
				Help:      "Fallback classifier round-trip time",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FallbackFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "fallback_failures_total",
				Help:      "Fallback calls that degraded to the safe default",
			},
		),
		TrackedConversations: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: serviceName,
				Name:      "tracked_conversations",
				Help:      "Conversations currently held in the state store",
			},
		),
	}
}
