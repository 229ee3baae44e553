// Package types holds the names shared by the stats collectors and the middlewares.
package types

// Stat is a type that represents the name of a statistic collected by a stats collector.
type Stat string

const (
	// StatInsertCreated counts inserts that created a new entry.
	StatInsertCreated Stat = "hypertable_insert_created"
	// StatInsertExisting counts inserts rejected because the key was present.
	StatInsertExisting Stat = "hypertable_insert_existing"
	// StatLookupHit counts lookups that found their key.
	StatLookupHit Stat = "hypertable_lookup_hit"
	// StatLookupMiss counts lookups that did not find their key.
	StatLookupMiss Stat = "hypertable_lookup_miss"
	// StatInsertDuration records insert latencies in nanoseconds.
	StatInsertDuration Stat = "hypertable_insert_duration"
	// StatLookupDuration records lookup latencies in nanoseconds.
	StatLookupDuration Stat = "hypertable_lookup_duration"
	// StatRoundDuration records the duration of one amortized lookup round in nanoseconds.
	StatRoundDuration Stat = "hypertable_round_duration"
	// StatTableSize gauges the number of entries in the table.
	StatTableSize Stat = "hypertable_size"
)

// String returns the string representation of a Stat.
func (s Stat) String() string {
	return string(s)
}
