package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/telemetry/attrs"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// OTelTracingMiddleware wraps hypertable.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware[K comparable, V any] struct {
	next   hypertable.Service[K, V]
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*[]attribute.KeyValue)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(common *[]attribute.KeyValue) { *common = append(*common, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
// Every span carries the shard count of the wrapped service.
func NewOTelTracingMiddleware[K comparable, V any](next hypertable.Service[K, V], tracer trace.Tracer, opts ...OTelTracingOption) hypertable.Service[K, V] {
	mw := &OTelTracingMiddleware[K, V]{
		next:        next,
		tracer:      tracer,
		commonAttrs: []attribute.KeyValue{attribute.Int(attrs.AttrShardCount, next.ShardCount())},
	}
	for _, o := range opts {
		o(&mw.commonAttrs)
	}

	return mw
}

// Insert implements Service.Insert with tracing.
func (mw OTelTracingMiddleware[K, V]) Insert(ctx context.Context, key K, value V) (bool, error) {
	ctx, span := mw.startSpan(ctx, "hypertable.Insert", keyAttrs(key)...)
	defer span.End()

	created, err := mw.next.Insert(ctx, key, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.SetAttributes(attribute.Bool(attrs.AttrCreated, created))

	return created, err
}

// Lookup implements Service.Lookup with tracing.
func (mw OTelTracingMiddleware[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	ctx, span := mw.startSpan(ctx, "hypertable.Lookup", keyAttrs(key)...)
	defer span.End()

	v, ok := mw.next.Lookup(ctx, key)
	span.SetAttributes(attribute.Bool(attrs.AttrHit, ok))

	return v, ok
}

// LookupMultiple implements Service.LookupMultiple with tracing.
func (mw OTelTracingMiddleware[K, V]) LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error) {
	ctx, span := mw.startSpan(ctx, "hypertable.LookupMultiple", attribute.Int(attrs.AttrKeysCount, len(keys)))
	defer span.End()

	res, err := mw.next.LookupMultiple(ctx, keys...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.SetAttributes(attribute.Int(attrs.AttrResultCount, len(res)))

	return res, err
}

// Len implements Service.Len with tracing.
func (mw OTelTracingMiddleware[K, V]) Len(ctx context.Context) int {
	ctx, span := mw.startSpan(ctx, "hypertable.Len")
	defer span.End()

	return mw.next.Len(ctx)
}

// ShardCount returns the number of shards.
func (mw OTelTracingMiddleware[K, V]) ShardCount() int { return mw.next.ShardCount() }

// ShardStats returns the per-shard counters.
func (mw OTelTracingMiddleware[K, V]) ShardStats() []table.ShardStats { return mw.next.ShardStats() }

// GetStats returns stats.
func (mw OTelTracingMiddleware[K, V]) GetStats() stats.Stats { return mw.next.GetStats() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware[K, V]) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}
