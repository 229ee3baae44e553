package table

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Hasher maps a key to an unsigned integer.
// It must be deterministic for the lifetime of the table it is given to.
type Hasher[K any] func(key K) uint64

// Equal reports whether two keys are the same.
// It must be consistent with the Hasher: equal keys hash identically.
type Equal[K any] func(a, b K) bool

// XXHashString hashes a string key with xxhash (64 bit).
func XXHashString(key string) uint64 {
	return xxhash.Sum64String(key)
}

// XXHashBytes hashes a byte slice key with xxhash (64 bit).
func XXHashBytes(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// Murmur3String hashes a string key with the 64 bit murmur3 variant.
func Murmur3String(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

// MaphashComparable returns a Hasher for any comparable key type.
// The seed is drawn once, so the returned function is deterministic for its own lifetime only.
func MaphashComparable[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()

	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// defaultHasher picks xxhash for plain string keys and maphash for anything else.
func defaultHasher[K comparable]() Hasher[K] {
	var zero K
	if _, ok := any(zero).(string); ok {
		return func(key K) uint64 {
			return xxhash.Sum64String(any(key).(string)) //nolint:forcetypeassert
		}
	}

	return MaphashComparable[K]()
}

func defaultEqual[K comparable](a, b K) bool {
	return a == b
}
