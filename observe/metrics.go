package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records resilience-layer metrics: Web API calls with their
// retries, and socket-mode envelope traffic.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one completed Web API call (after all retries)
	// with its duration and error status.
	RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordRetry records one scheduled retry wait.
	RecordRetry(ctx context.Context, meta OpMeta, attempt int, delay time.Duration)

	// RecordEnvelope records one envelope received over the event channel.
	RecordEnvelope(ctx context.Context, meta OpMeta, envelopeType string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	callCount     metric.Int64Counter
	callErrors    metric.Int64Counter
	callDuration  metric.Float64Histogram
	retryCount    metric.Int64Counter
	envelopeCount metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	callCount, err := meter.Int64Counter(
		"chat.call.total",
		metric.WithDescription("Total number of Web API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	callErrors, err := meter.Int64Counter(
		"chat.call.errors",
		metric.WithDescription("Total number of failed Web API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	callDuration, err := meter.Float64Histogram(
		"chat.call.duration_ms",
		metric.WithDescription("Web API call duration, retries included, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"chat.retry.total",
		metric.WithDescription("Total number of scheduled retry waits"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	envelopeCount, err := meter.Int64Counter(
		"chat.envelope.total",
		metric.WithDescription("Total number of envelopes received over the event channel"),
		metric.WithUnit("{envelope}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		callCount:     callCount,
		callErrors:    callErrors,
		callDuration:  callDuration,
		retryCount:    retryCount,
		envelopeCount: envelopeCount,
	}, nil
}

func (m *metricsImpl) opAttributes(meta OpMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("op.component", meta.Component),
		attribute.String("op.name", meta.Name),
	}
	return metric.WithAttributes(attrs...)
}

// RecordCall records metrics for one completed Web API call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := m.opAttributes(meta)

	m.callCount.Add(ctx, 1, opt)
	if err != nil {
		m.callErrors.Add(ctx, 1, opt)
	}
	m.callDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRetry records one scheduled retry wait.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta OpMeta, attempt int, delay time.Duration) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op.component", meta.Component),
		attribute.String("op.name", meta.Name),
		attribute.Int("retry.attempt", attempt),
	))
}

// RecordEnvelope records one envelope received over the event channel.
func (m *metricsImpl) RecordEnvelope(ctx context.Context, meta OpMeta, envelopeType string) {
	m.envelopeCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op.component", meta.Component),
		attribute.String("envelope.type", envelopeType),
	))
}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordRetry(ctx context.Context, meta OpMeta, attempt int, delay time.Duration) {
}
func (m *noopMetrics) RecordEnvelope(ctx context.Context, meta OpMeta, envelopeType string) {}
