package hypertable

import (
	"github.com/hyp3rd/hypertable/pkg/stats"
)

// Option is a function type that can be used to configure the `HyperTable` struct.
type Option[K comparable, V any] func(*HyperTable[K, V])

// ApplyHyperTableOptions applies the given options to the given table.
func ApplyHyperTableOptions[K comparable, V any](ht *HyperTable[K, V], options ...Option[K, V]) {
	for _, option := range options {
		option(ht)
	}
}

// WithStatsCollector is an option that sets the name of the stats collector, resolved
// through the default stats registry when the `HyperTable` is built.
func WithStatsCollector[K comparable, V any](name string) Option[K, V] {
	return func(ht *HyperTable[K, V]) {
		ht.statsCollectorName = name
	}
}

// WithCollector is an option that sets an already built stats collector.
// It takes precedence over `WithStatsCollector`.
func WithCollector[K comparable, V any](collector stats.ICollector) Option[K, V] {
	return func(ht *HyperTable[K, V]) {
		ht.statsCollector = collector
	}
}
