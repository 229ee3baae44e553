package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// StatsCollectorMiddleware is a middleware that collects per-call stats.
// Its names differ from the ones HyperTable records, so it may share the same collector.
type StatsCollectorMiddleware[K comparable, V any] struct {
	next           hypertable.Service[K, V]
	statsCollector stats.ICollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware[K comparable, V any](next hypertable.Service[K, V], statsCollector stats.ICollector) hypertable.Service[K, V] {
	return &StatsCollectorMiddleware[K, V]{next: next, statsCollector: statsCollector}
}

// Insert collects stats for the Insert method.
func (mw StatsCollectorMiddleware[K, V]) Insert(ctx context.Context, key K, value V) (bool, error) {
	start := time.Now()

	defer func() {
		mw.statsCollector.Timing("hypertable_mw_insert_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("hypertable_mw_insert_count", 1)
	}()

	return mw.next.Insert(ctx, key, value)
}

// Lookup collects stats for the Lookup method.
func (mw StatsCollectorMiddleware[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	start := time.Now()

	defer func() {
		mw.statsCollector.Timing("hypertable_mw_lookup_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Incr("hypertable_mw_lookup_count", 1)
	}()

	return mw.next.Lookup(ctx, key)
}

// LookupMultiple collects stats for the LookupMultiple method.
func (mw StatsCollectorMiddleware[K, V]) LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error) {
	start := time.Now()

	defer func() {
		mw.statsCollector.Timing("hypertable_mw_lookup_multiple_duration", time.Since(start).Nanoseconds())
		mw.statsCollector.Histogram("hypertable_mw_lookup_multiple_keys", int64(len(keys)))
	}()

	return mw.next.LookupMultiple(ctx, keys...)
}

// Len returns the number of entries.
func (mw StatsCollectorMiddleware[K, V]) Len(ctx context.Context) int {
	return mw.next.Len(ctx)
}

// ShardCount returns the number of shards.
func (mw StatsCollectorMiddleware[K, V]) ShardCount() int {
	return mw.next.ShardCount()
}

// ShardStats returns the per-shard counters.
func (mw StatsCollectorMiddleware[K, V]) ShardStats() []table.ShardStats {
	return mw.next.ShardStats()
}

// GetStats returns the stats collected by the service.
func (mw StatsCollectorMiddleware[K, V]) GetStats() stats.Stats {
	return mw.next.GetStats()
}
