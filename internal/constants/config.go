// Package constants defines default configuration values for the hypertable
// system. It provides the sharding and growth parameters of the table, the
// management server timeouts and the defaults of the bundled workloads.
package constants

import "time"

const (
	// DefaultShardCount is the number of shards used when the runtime cannot
	// report how many logical CPUs are available.
	DefaultShardCount = 16
	// MaxLoadFactor is the upper bound of elements per bucket within a shard.
	// A shard grows its bucket array before an insert would exceed it.
	MaxLoadFactor = 0.75
	// DesiredGrowthFactor is the minimum multiplier applied to the bucket count
	// on growth. Anything above one keeps insertion amortized constant time.
	DesiredGrowthFactor = 1.5
	// MinBuckets is ceil(1 / MaxLoadFactor), the smallest bucket array that can
	// hold one element without exceeding MaxLoadFactor.
	MinBuckets = 2
)

// DefaultStatsWindow is the number of most recent samples a histogram stats
// collector keeps per statistic for its median, percentiles and variance.
const DefaultStatsWindow = 1024

const (
	// DefaultMgmtReadTimeout is the read timeout of the management HTTP server.
	DefaultMgmtReadTimeout = 5 * time.Second
	// DefaultMgmtWriteTimeout is the write timeout of the management HTTP server.
	DefaultMgmtWriteTimeout = 5 * time.Second
	// DefaultMgmtAddr is the address the management HTTP server binds to.
	DefaultMgmtAddr = "127.0.0.1:9191"
)

const (
	// DefaultBreathingWorkers is the number of goroutines started by the breathing workload.
	DefaultBreathingWorkers = 100
	// DefaultBreathingIterations is the number of insert+lookup pairs each breathing worker runs.
	DefaultBreathingIterations = 1000
	// DefaultAmortizedRounds is the number of rounds run by the amortized lookup workload.
	DefaultAmortizedRounds = 10000
	// DefaultLookupsPerRound is the number of lookups performed in each amortized round.
	DefaultLookupsPerRound = 1000
)

// BreathingKeys is the vocabulary the breathing workload draws its keys from.
// "green" appears twice on purpose, it skews the draw.
//
//nolint:gochecknoglobals
var BreathingKeys = []string{
	"how", "now", "brown", "cow", "grazing",
	"in", "the", "green", "green", "grass",
}
