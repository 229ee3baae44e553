package table

import (
	"math"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/hyp3rd/hypertable/internal/constants"
)

// minBuckets is the smallest bucket array that keeps a single element under the max load factor.
//
//nolint:gochecknoglobals
var minBuckets = int(math.Ceil(1 / constants.MaxLoadFactor))

// entry is a node of a bucket's collision chain. The key is never mutated once stored.
type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// shard is an independently lockable chained hash table over a subset of the key space.
//
// Its methods assume the caller already holds mu: read mode for lookup, write mode for insert.
// A shard never locks itself.
type shard[K comparable, V any] struct {
	mu sync.RWMutex

	buckets  []*entry[K, V] // heads of the collision chains, most recent first
	count    int
	rehashes uint64
	ks       *keyspace[K]

	_ cpu.CacheLinePad
}

// lookup returns a pointer to the value stored under key, or nil.
func (s *shard[K, V]) lookup(hash uint64, key K) *V {
	if len(s.buckets) == 0 {
		return nil
	}

	for e := s.buckets[hash%uint64(len(s.buckets))]; e != nil; e = e.next {
		if s.ks.equal(e.key, key) {
			return &e.value
		}
	}

	return nil
}

// insert adds key unless it is already present. It reports whether an entry was created.
func (s *shard[K, V]) insert(hash uint64, key K, value V) bool {
	if s.lookup(hash, key) != nil {
		return false
	}

	if s.needsRehash() {
		s.rehash(nextBucketCount(s.count, len(s.buckets)))
	}

	idx := hash % uint64(len(s.buckets))
	s.buckets[idx] = &entry[K, V]{key: key, value: value, next: s.buckets[idx]}
	s.count++

	return true
}

// needsRehash reports whether one more element would overflow the bucket array.
func (s *shard[K, V]) needsRehash() bool {
	if len(s.buckets) == 0 {
		return true
	}

	return float64(s.count+1)/float64(len(s.buckets)) > constants.MaxLoadFactor
}

// rehash moves every entry into a fresh array of n buckets.
// The new array is allocated before any entry is touched; entries are spliced one at a time.
func (s *shard[K, V]) rehash(n int) {
	buckets := make([]*entry[K, V], n)

	for i := range s.buckets {
		for s.buckets[i] != nil {
			e := s.buckets[i]
			s.buckets[i] = e.next

			idx := s.ks.local(s.ks.hash(e.key)) % uint64(n)
			e.next = buckets[idx]
			buckets[idx] = e
		}
	}

	s.buckets = buckets
	s.rehashes++
}

// stats reads the shard counters. The caller holds mu in read mode.
func (s *shard[K, V]) stats(index int) ShardStats {
	st := ShardStats{
		Index:    index,
		Elements: s.count,
		Buckets:  len(s.buckets),
		Rehashes: s.rehashes,
	}

	if st.Buckets > 0 {
		st.LoadFactor = float64(st.Elements) / float64(st.Buckets)
	}

	for _, head := range s.buckets {
		chain := 0
		for e := head; e != nil; e = e.next {
			chain++
		}

		if chain == 0 {
			st.EmptyBuckets++
		}

		st.LongestChain = max(st.LongestChain, chain)
	}

	return st
}

// nextBucketCount returns the bucket count to grow to so that count+1 elements
// fit under the max load factor, growing by at least DesiredGrowthFactor.
func nextBucketCount(count, buckets int) int {
	if buckets == 0 {
		return minBuckets
	}

	minGrowth := float64(count+1) / (float64(buckets) * constants.MaxLoadFactor)
	growth := max(minGrowth, constants.DesiredGrowthFactor)

	grown := int(math.Round(growth * float64(buckets)))
	// rounding can land one bucket short of the bound
	fit := int(math.Ceil(float64(count+1) / constants.MaxLoadFactor))

	return max(minBuckets, grown, fit)
}
