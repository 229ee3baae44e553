package table

import "sync"

// Guard bundles a shard read lock with a pointer into that shard's storage.
// Writers on the shard are blocked until Release is called.
type Guard[V any] struct {
	mu    *sync.RWMutex
	value *V
}

// Value returns the guarded value. It is nil after Release.
func (g *Guard[V]) Value() *V {
	return g.value
}

// Release drops the read lock. Calling it more than once is a no-op.
// A guard must not be released concurrently from several goroutines.
func (g *Guard[V]) Release() {
	if g.mu == nil {
		return
	}

	mu := g.mu
	g.mu, g.value = nil, nil

	mu.RUnlock()
}
