package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/telemetry/attrs"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware[K comparable, V any] struct {
	next  hypertable.Service[K, V]
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware[K comparable, V any](next hypertable.Service[K, V], meter metric.Meter) (hypertable.Service[K, V], error) {
	calls, err := meter.Int64Counter("hypertable.calls")
	if err != nil {
		return nil, ewrap.Wrap(err, "create counter")
	}

	durations, err := meter.Float64Histogram("hypertable.duration.ms")
	if err != nil {
		return nil, ewrap.Wrap(err, "create histogram")
	}

	return &OTelMetricsMiddleware[K, V]{next: next, meter: meter, calls: calls, durations: durations}, nil
}

// Insert implements Service.Insert with metrics.
func (mw *OTelMetricsMiddleware[K, V]) Insert(ctx context.Context, key K, value V) (bool, error) {
	start := time.Now()
	created, err := mw.next.Insert(ctx, key, value)
	mw.rec(ctx, "Insert", start, append(keyAttrs(key), attribute.Bool(attrs.AttrCreated, created))...)

	return created, err
}

// Lookup implements Service.Lookup with metrics.
func (mw *OTelMetricsMiddleware[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	start := time.Now()
	v, ok := mw.next.Lookup(ctx, key)
	mw.rec(ctx, "Lookup", start, append(keyAttrs(key), attribute.Bool(attrs.AttrHit, ok))...)

	return v, ok
}

// LookupMultiple implements Service.LookupMultiple with metrics.
func (mw *OTelMetricsMiddleware[K, V]) LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error) {
	start := time.Now()
	res, err := mw.next.LookupMultiple(ctx, keys...)
	mw.rec(ctx, "LookupMultiple", start, attribute.Int(attrs.AttrKeysCount, len(keys)), attribute.Int(attrs.AttrResultCount, len(res)))

	return res, err
}

// Len returns the number of entries.
func (mw *OTelMetricsMiddleware[K, V]) Len(ctx context.Context) int { return mw.next.Len(ctx) }

// ShardCount returns the number of shards.
func (mw *OTelMetricsMiddleware[K, V]) ShardCount() int { return mw.next.ShardCount() }

// ShardStats returns the per-shard counters.
func (mw *OTelMetricsMiddleware[K, V]) ShardStats() []table.ShardStats { return mw.next.ShardStats() }

// GetStats returns stats.
func (mw *OTelMetricsMiddleware[K, V]) GetStats() stats.Stats { return mw.next.GetStats() }

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware[K, V]) rec(ctx context.Context, method string, start time.Time, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String(attrs.AttrMethod, method)}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(base...))
}
