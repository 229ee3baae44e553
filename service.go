package hypertable

import (
	"context"

	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// Service is the service interface for the HyperTable.
// It enables middleware to be added to the service.
type Service[K comparable, V any] interface {
	// Insert stores value under key unless the key is present; it reports whether an entry was created
	Insert(ctx context.Context, key K, value V) (bool, error)
	// Lookup returns a copy of the value stored under key
	Lookup(ctx context.Context, key K) (V, bool)
	// LookupMultiple returns the values of the keys that are present
	LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error)
	// Len returns the number of entries in the table
	Len(ctx context.Context) int
	// ShardCount returns the fixed number of shards
	ShardCount() int
	// ShardStats returns the per-shard counters
	ShardStats() []table.ShardStats
	// GetStats returns the stats of the table
	GetStats() stats.Stats
}

// Middleware describes a service middleware.
type Middleware[K comparable, V any] func(Service[K, V]) Service[K, V]

// ApplyMiddleware applies middlewares to a service.
// The last middleware is the outermost one.
func ApplyMiddleware[K comparable, V any](svc Service[K, V], mw ...Middleware[K, V]) Service[K, V] {
	for _, m := range mw {
		svc = m(svc)
	}

	return svc
}
