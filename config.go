package hypertable

import (
	"github.com/hyp3rd/hypertable/pkg/table"
)

// Config is a struct that wraps all the configuration options to setup `HyperTable` and its table.
type Config[K comparable, V any] struct {
	// TableOptions is a slice of options that can be used to configure the underlying `table.Table`.
	TableOptions []table.Option[K, V]
	// HyperTableOptions is a slice of options that can be used to configure `HyperTable`.
	HyperTableOptions []Option[K, V]
}

// NewConfig returns a new `Config` struct with default values:
//   - `TableOptions` is empty: the shard count follows the detected parallelism
//   - `HyperTableOptions` is set to:
//     -- `WithStatsCollector[K, V]("default")`
//
// Each of the above options can be overridden by assigning different options to the fields.
func NewConfig[K comparable, V any]() *Config[K, V] {
	return &Config[K, V]{
		TableOptions: []table.Option[K, V]{},
		HyperTableOptions: []Option[K, V]{
			WithStatsCollector[K, V]("default"),
		},
	}
}
