package table

import (
	"strconv"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/longbridgeapp/assert"
)

type label string

func TestDefaultHasher(t *testing.T) {
	h := defaultHasher[string]()
	assert.Equal(t, xxhash.Sum64String("hypertable"), h("hypertable"))

	// named string types fall back to maphash, which must still be deterministic
	lh := defaultHasher[label]()
	assert.Equal(t, lh("x"), lh("x"))

	ih := defaultHasher[int]()
	assert.Equal(t, ih(42), ih(42))
}

func TestHashers(t *testing.T) {
	tests := []struct {
		name   string
		hasher Hasher[string]
	}{
		{name: "xxhash", hasher: XXHashString},
		{name: "murmur3", hasher: Murmur3String},
		{name: "maphash", hasher: MaphashComparable[string]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[uint64]struct{}, 1000)

			for i := range 1000 {
				key := strconv.Itoa(i)
				assert.Equal(t, tt.hasher(key), tt.hasher(key))

				seen[tt.hasher(key)] = struct{}{}
			}

			assert.Equal(t, 1000, len(seen))
		})
	}

	assert.Equal(t, XXHashString("bytes"), XXHashBytes([]byte("bytes")))
}

func TestTableWithMurmur3(t *testing.T) {
	tbl := New(
		WithShardCount[string, int](4),
		WithHasher[string, int](Murmur3String),
	)

	for i := range 500 {
		assert.True(t, tbl.Insert(strconv.Itoa(i), i))
	}

	for i := range 500 {
		v, ok := tbl.Lookup(strconv.Itoa(i))
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}
