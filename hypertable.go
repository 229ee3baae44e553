// Package hypertable exposes a sharded concurrent hash table as a context-aware service.
//
// The table itself lives in pkg/table; HyperTable adds cancellation checks, stats
// collection and the Service interface that middlewares (logging, OpenTelemetry)
// decorate. The management HTTP server reads its introspection data from it.
package hypertable

import (
	"context"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
	"github.com/hyp3rd/hypertable/types"
)

// HyperTable is a sharded concurrent hash table with insert and lookup operations.
// Entries are never removed or updated in place: inserting a present key is a no-op.
type HyperTable[K comparable, V any] struct {
	table              *table.Table[K, V]
	statsCollector     stats.ICollector
	statsCollectorName string
}

// New creates a HyperTable from the given config.
// It fails only when the configured stats collector cannot be built.
func New[K comparable, V any](config *Config[K, V]) (*HyperTable[K, V], error) {
	if config == nil {
		config = NewConfig[K, V]()
	}

	ht := &HyperTable[K, V]{
		statsCollectorName: "default",
	}

	ApplyHyperTableOptions(ht, config.HyperTableOptions...)

	if ht.statsCollector == nil {
		collector, err := stats.NewCollector(ht.statsCollectorName)
		if err != nil {
			return nil, ewrap.Wrap(err, "failed to create stats collector")
		}

		ht.statsCollector = collector
	}

	ht.table = table.New(config.TableOptions...)

	return ht, nil
}

// NewWithDefaults creates a HyperTable with the default config.
func NewWithDefaults[K comparable, V any]() (*HyperTable[K, V], error) {
	return New(NewConfig[K, V]())
}

// Insert stores value under key unless the key is already present.
// It reports whether a new entry was created. The only error is a context that is
// already done when the call starts: once the shard lock is taken the insert completes.
func (ht *HyperTable[K, V]) Insert(ctx context.Context, key K, value V) (bool, error) {
	if ctx.Err() != nil {
		return false, sentinel.ErrTimeoutOrCanceled
	}

	start := time.Now()
	created := ht.table.Insert(key, value)

	ht.statsCollector.Timing(types.StatInsertDuration, time.Since(start).Nanoseconds())

	if created {
		ht.statsCollector.Incr(types.StatInsertCreated, 1)
	} else {
		ht.statsCollector.Incr(types.StatInsertExisting, 1)
	}

	return created, nil
}

// Lookup returns a copy of the value stored under key and whether it was found.
// A context that is already done yields a miss.
func (ht *HyperTable[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	if ctx.Err() != nil {
		var zero V

		return zero, false
	}

	start := time.Now()
	value, ok := ht.table.Lookup(key)

	ht.statsCollector.Timing(types.StatLookupDuration, time.Since(start).Nanoseconds())

	if ok {
		ht.statsCollector.Incr(types.StatLookupHit, 1)
	} else {
		ht.statsCollector.Incr(types.StatLookupMiss, 1)
	}

	return value, ok
}

// LookupMultiple returns the values of the keys that are present.
// The context is checked between keys; on cancellation the partial result is
// returned together with ErrTimeoutOrCanceled.
func (ht *HyperTable[K, V]) LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error) {
	result := make(map[K]V, len(keys))

	for _, key := range keys {
		if ctx.Err() != nil {
			return result, sentinel.ErrTimeoutOrCanceled
		}

		if value, ok := ht.Lookup(ctx, key); ok {
			result[key] = value
		}
	}

	return result, nil
}

// Acquire returns a guard over the stored value, see table.Table.Acquire.
func (ht *HyperTable[K, V]) Acquire(key K) (*table.Guard[V], bool) {
	return ht.table.Acquire(key)
}

// Len returns the number of entries in the table.
func (ht *HyperTable[K, V]) Len(_ context.Context) int {
	n := ht.table.Len()
	ht.statsCollector.Gauge(types.StatTableSize, int64(n))

	return n
}

// ShardCount returns the fixed number of shards.
func (ht *HyperTable[K, V]) ShardCount() int {
	return ht.table.ShardCount()
}

// ShardStats returns the per-shard counters.
func (ht *HyperTable[K, V]) ShardStats() []table.ShardStats {
	return ht.table.ShardStats()
}

// GetStats returns the stats collected so far.
func (ht *HyperTable[K, V]) GetStats() stats.Stats {
	return ht.statsCollector.GetStats()
}

// StatsCollector returns the collector the table records into, so middlewares
// and workloads can share it.
func (ht *HyperTable[K, V]) StatsCollector() stats.ICollector {
	return ht.statsCollector
}

// StatsCollectorName returns the name the stats collector was resolved with.
func (ht *HyperTable[K, V]) StatsCollectorName() string {
	return ht.statsCollectorName
}
