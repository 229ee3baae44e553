package table

// Option is a function type that can be used to configure a `Table` before its shards are allocated.
type Option[K comparable, V any] func(*Table[K, V])

// ApplyOptions applies the given options to the given table.
func ApplyOptions[K comparable, V any](t *Table[K, V], options ...Option[K, V]) {
	for _, option := range options {
		option(t)
	}
}

// WithShardCount sets the number of shards. Values below one are ignored and the
// detected parallelism is used instead.
func WithShardCount[K comparable, V any](n int) Option[K, V] {
	return func(t *Table[K, V]) {
		if n > 0 {
			t.shardCount = n
		}
	}
}

// WithHasher replaces the key hash function. A nil hasher is ignored.
func WithHasher[K comparable, V any](hasher Hasher[K]) Option[K, V] {
	return func(t *Table[K, V]) {
		if hasher != nil {
			t.ks.hash = hasher
		}
	}
}

// WithEqual replaces the key equality predicate. A nil predicate is ignored.
func WithEqual[K comparable, V any](equal Equal[K]) Option[K, V] {
	return func(t *Table[K, V]) {
		if equal != nil {
			t.ks.equal = equal
		}
	}
}

// WithRawBucketHash makes shards pick buckets with the raw key hash, the same value
// that selected the shard. When the shard count and a bucket count share factors,
// some buckets of a shard can never be used.
func WithRawBucketHash[K comparable, V any]() Option[K, V] {
	return func(t *Table[K, V]) {
		t.ks.raw = true
	}
}
