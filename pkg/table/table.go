// Package table provides a thread-safe hash table with a fixed number of shards.
//
// Every key is routed to exactly one shard by hash(key) mod shard count. Each shard
// is a chained hash table guarded by its own read-write mutex, so lookups on the same
// shard proceed in parallel, inserts exclude only the shard they touch, and
// operations on different shards never contend. Shards grow their bucket array
// synchronously, inside the insert that would push the load factor above 0.75.
//
// The table supports insert and lookup only: entries are never removed or updated
// in place.
//
// Example usage:
//
//	t := table.New[string, int]()
//	t.Insert("a", 1)     // true
//	t.Insert("a", 2)     // false, "a" still maps to 1
//	v, ok := t.Lookup("a")
package table

// keyspace carries the hashing collaborators shared by the table and its shards.
type keyspace[K comparable] struct {
	hash   Hasher[K]
	equal  Equal[K]
	shards uint64
	raw    bool
}

// local derives the hash a shard uses to pick a bucket.
// By default the quotient of the shard reduction is used, so the shard index and
// the bucket index are drawn from different parts of the hash.
func (ks *keyspace[K]) local(h uint64) uint64 {
	if ks.raw {
		return h
	}

	return h / ks.shards
}

// Table is a fixed-shard-count concurrent hash table.
// The zero value is not usable, create tables with New.
type Table[K comparable, V any] struct {
	shards     []shard[K, V]
	ks         *keyspace[K]
	shardCount int
}

// New creates a table. Unless WithShardCount says otherwise, the shard count is
// DefaultShardCount(). All shards are allocated eagerly with empty bucket arrays.
func New[K comparable, V any](options ...Option[K, V]) *Table[K, V] {
	t := &Table[K, V]{
		ks: &keyspace[K]{
			hash:  defaultHasher[K](),
			equal: defaultEqual[K],
		},
		shardCount: DefaultShardCount(),
	}

	ApplyOptions(t, options...)

	t.ks.shards = uint64(t.shardCount)

	t.shards = make([]shard[K, V], t.shardCount)
	for i := range t.shards {
		t.shards[i].ks = t.ks
	}

	return t
}

// route returns the shard owning key and the shard-local hash of key.
func (t *Table[K, V]) route(key K) (*shard[K, V], uint64) {
	h := t.ks.hash(key)

	return &t.shards[h%t.ks.shards], t.ks.local(h)
}

// Lookup returns a copy of the value stored under key and whether it was found.
// It blocks only while a writer holds the key's shard.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	s, h := t.route(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if v := s.lookup(h, key); v != nil {
		return *v, true
	}

	var zero V

	return zero, false
}

// Acquire looks key up and, when found, returns a Guard holding the shard's read lock.
// The pointer returned by Guard.Value stays valid until Release.
// When the key is absent the lock is released before Acquire returns.
//
// Inserting into the table from the goroutine holding a Guard can deadlock if the
// insert lands on the guarded shard.
func (t *Table[K, V]) Acquire(key K) (*Guard[V], bool) {
	s, h := t.route(key)

	s.mu.RLock()

	v := s.lookup(h, key)
	if v == nil {
		s.mu.RUnlock()

		return nil, false
	}

	return &Guard[V]{mu: &s.mu, value: v}, true
}

// Insert stores value under key unless the key is already present.
// It reports whether a new entry was created; an existing value is left unchanged.
func (t *Table[K, V]) Insert(key K, value V) bool {
	s, h := t.route(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(h, key, value)
}

// ShardCount returns the number of shards, fixed at construction.
func (t *Table[K, V]) ShardCount() int {
	return len(t.shards)
}

// Len returns the number of entries. Shards are read one at a time, so under
// concurrent inserts the result is not a snapshot of a single instant.
func (t *Table[K, V]) Len() int {
	total := 0

	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()

		total += s.count
		s.mu.RUnlock()
	}

	return total
}

// ShardStats returns the counters of every shard, in shard order.
func (t *Table[K, V]) ShardStats() []ShardStats {
	out := make([]ShardStats, len(t.shards))

	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()

		out[i] = s.stats(i)
		s.mu.RUnlock()
	}

	return out
}
