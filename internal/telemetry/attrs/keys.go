// Package attrs defines telemetry attribute keys shared by the hypertable middlewares,
// so metrics and traces describe the same operation with the same names.
package attrs

const (
	// AttrKeyLength is the length in bytes of a string key.
	AttrKeyLength = "key.len"
	// AttrKeysCount is the number of keys passed to a multi-key operation.
	AttrKeysCount = "keys.count"
	// AttrResultCount is the number of values a multi-key lookup returned.
	AttrResultCount = "result.count"
	// AttrHit reports whether a lookup found its key.
	AttrHit = "hit"
	// AttrCreated reports whether an insert created a new entry.
	AttrCreated = "created"
	// AttrShardCount is the fixed number of shards of the table.
	AttrShardCount = "shard.count"
	// AttrMethod is the service method being measured.
	AttrMethod = "method"
)
