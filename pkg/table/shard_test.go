package table

import (
	"math"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hypertable/internal/constants"
)

func newTestShard() *shard[int, string] {
	return &shard[int, string]{
		ks: &keyspace[int]{
			hash:   func(k int) uint64 { return uint64(k) }, //nolint:gosec
			equal:  defaultEqual[int],
			shards: 1,
		},
	}
}

func TestNextBucketCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		buckets  int
		expected int
	}{
		{name: "empty array", count: 0, buckets: 0, expected: 2},
		{name: "second element", count: 1, buckets: 2, expected: 3},
		{name: "half rounds away from zero", count: 2, buckets: 3, expected: 5},
		{name: "regular growth", count: 6, buckets: 8, expected: 12},
		{name: "overfull shard grows past 1.5", count: 100, buckets: 10, expected: 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextBucketCount(tt.count, tt.buckets)
			assert.Equal(t, tt.expected, got)
			assert.True(t, float64(tt.count+1)/float64(got) <= constants.MaxLoadFactor)
		})
	}

	assert.Equal(t, int(math.Ceil(1/constants.MaxLoadFactor)), minBuckets)
	assert.Equal(t, constants.MinBuckets, minBuckets)
}

func TestShardLookupEmpty(t *testing.T) {
	s := newTestShard()

	assert.Nil(t, s.lookup(0, 0))
	assert.Equal(t, 0, len(s.buckets))
}

func TestShardInsertGrowth(t *testing.T) {
	s := newTestShard()

	assert.True(t, s.insert(1, 1, "one"))
	assert.Equal(t, 2, len(s.buckets))
	assert.Equal(t, uint64(1), s.rehashes)

	assert.False(t, s.insert(1, 1, "uno"))
	assert.Equal(t, "one", *s.lookup(1, 1))

	assert.True(t, s.insert(2, 2, "two"))
	assert.Equal(t, 3, len(s.buckets))

	assert.True(t, s.insert(3, 3, "three"))
	assert.Equal(t, 5, len(s.buckets))
	assert.Equal(t, 3, s.count)
	assert.Equal(t, uint64(3), s.rehashes)
}

func TestShardChainOrder(t *testing.T) {
	s := newTestShard()
	// Five keys grow the array to 8 buckets; the sixth stays at load 0.75
	// and lands in bucket 0 in front of key 0.
	for k := range 5 {
		s.insert(uint64(k), k, "") //nolint:gosec
	}

	assert.Equal(t, 8, len(s.buckets))

	s.insert(8, 8, "")

	head := s.buckets[0]
	assert.Equal(t, 8, head.key)
	assert.Equal(t, 0, head.next.key)
	assert.Nil(t, head.next.next)
}

func TestShardRehashRelocatesEveryEntry(t *testing.T) {
	s := newTestShard()
	for k := range 50 {
		s.insert(uint64(k), k, "v") //nolint:gosec
	}

	before := s.count
	s.rehash(97)

	assert.Equal(t, 97, len(s.buckets))
	assert.Equal(t, before, s.count)

	seen := 0

	for i, head := range s.buckets {
		for e := head; e != nil; e = e.next {
			seen++

			assert.Equal(t, i, e.key%97)
		}
	}

	assert.Equal(t, before, seen)
}
