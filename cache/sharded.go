package cache

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// shardMask is used for fast shard selection (DefaultShardCount - 1).
	shardMask = DefaultShardCount - 1
)

// ErrLoadPanicked is returned to callers that were waiting on a load whose
// function panicked.
var ErrLoadPanicked = errors.New("cache: load panicked")

// Hasher is a function that computes a hash for a key.
// Used by ShardedCache for shard selection.
type Hasher[K any] func(K) uint64

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// StringHasher computes the FNV-1a hash of a string key without allocating.
func StringHasher(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// ShardedCache is a thread-safe, sharded cache for high-concurrency scenarios.
//
// Features:
//   - 16 shards for reduced lock contention
//   - optional LRU eviction with a per-shard capacity
//   - per-key load coalescing: concurrent GetOrLoad calls for one key run
//     the load function once, outside the shard lock
//   - atomic statistics for monitoring
type ShardedCache[K comparable, V any] struct {
	shards   [DefaultShardCount]*shard[K, V]
	hasher   Hasher[K]
	capacity int // per shard, 0 means unbounded

	hits      atomic.Uint64
	misses    atomic.Uint64
	loads     atomic.Uint64
	evictions atomic.Uint64
}

// shard is a single shard of the cache.
// Each shard has its own mutex for reduced contention.
type shard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[K, V]
	lru     *lruList[K]
	calls   map[K]*call[V]
}

// entry holds a cached value with its LRU node.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// call is an in-flight load. val and err are written before done is closed.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error

	// forgotten is set under the shard lock when the key was deleted while
	// loading; the result is then handed to waiters but not stored.
	forgotten bool
}

// NewSharded creates a new sharded cache.
//
// capacity is the maximum number of entries per shard; once a shard is full
// its least recently used entry is evicted. A capacity <= 0 disables
// eviction entirely.
//
// The hasher function is used to compute hash values for shard selection.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity < 0 {
		capacity = 0
	}

	c := &ShardedCache[K, V]{
		hasher:   hasher,
		capacity: capacity,
	}

	for i := range c.shards {
		c.shards[i] = &shard[K, V]{
			entries: make(map[K]*entry[K, V]),
			lru:     newLRUList[K](),
			calls:   make(map[K]*call[V]),
		}
	}

	return c
}

// getShard returns the shard for a given key.
// Uses bitwise AND for fast modulo (only works with power-of-2 shard count).
func (c *ShardedCache[K, V]) getShard(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a cached value by key.
// Returns (value, true) if found, (zero, false) otherwise.
//
// In-flight loads are not waited for.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.getShard(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	value := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// Set stores a value in the cache, replacing any previous value.
//
// The value is stored as-is (not copied). Callers should not modify it
// after caching.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.insertLocked(s, key, value)
}

// insertLocked stores value under key. s.mu must be held.
func (c *ShardedCache[K, V]) insertLocked(s *shard[K, V], key K, value V) {
	if existing, ok := s.entries[key]; ok {
		existing.value = value
		s.lru.MoveToFront(existing.node)
		return
	}

	for c.capacity > 0 && s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}

	s.entries[key] = &entry[K, V]{
		value: value,
		node:  s.lru.PushFront(key),
	}
}

// GetOrLoad returns the cached value for key, calling load to produce it on
// a miss.
//
// Concurrent callers for the same key share a single call to load and all
// receive its result. load runs without any shard lock held, so loads of
// different keys proceed in parallel. A value is stored only when load
// succeeds and the key was not deleted while it ran; errors are never
// cached.
//
// The shared result reports whether this caller's value came from the
// cache or another caller's load rather than its own call to load.
func (c *ShardedCache[K, V]) GetOrLoad(key K, load func() (V, error)) (value V, shared bool, err error) {
	s := c.getShard(key)

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		s.lru.MoveToFront(e.node)
		value = e.value
		s.mu.Unlock()
		c.hits.Add(1)
		return value, true, nil
	}
	if cl, ok := s.calls[key]; ok {
		s.mu.Unlock()
		c.hits.Add(1)
		<-cl.done
		return cl.val, true, cl.err
	}
	cl := &call[V]{done: make(chan struct{})}
	s.calls[key] = cl
	s.mu.Unlock()

	c.misses.Add(1)
	c.loads.Add(1)
	c.doLoad(s, key, cl, load)
	return cl.val, false, cl.err
}

// doLoad runs load and publishes its result. If load panics the waiters
// are released with ErrLoadPanicked and the panic continues up the
// caller's stack.
func (c *ShardedCache[K, V]) doLoad(s *shard[K, V], key K, cl *call[V], load func() (V, error)) {
	normalReturn := false
	defer func() {
		if !normalReturn {
			var zero V
			cl.val, cl.err = zero, ErrLoadPanicked
		}

		s.mu.Lock()
		if s.calls[key] == cl {
			delete(s.calls, key)
		}
		if cl.err == nil && !cl.forgotten {
			c.insertLocked(s, key, cl.val)
		}
		s.mu.Unlock()

		close(cl.done)
	}()

	cl.val, cl.err = load()
	normalReturn = true
}

// Delete removes an entry from the cache and forgets any in-flight load for
// it. Returns true if a stored entry was found and removed.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cl, ok := s.calls[key]; ok {
		cl.forgotten = true
		delete(s.calls, key)
	}

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// DeleteFunc removes every entry whose key satisfies match and forgets
// matching in-flight loads. It returns the number of stored entries
// removed.
func (c *ShardedCache[K, V]) DeleteFunc(match func(K) bool) int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for key, e := range s.entries {
			if match(key) {
				s.lru.Remove(e.node)
				delete(s.entries, key)
				n++
			}
		}
		for key, cl := range s.calls {
			if match(key) {
				cl.forgotten = true
				delete(s.calls, key)
			}
		}
		s.mu.Unlock()
	}
	return n
}

// Clear removes all entries from the cache and forgets in-flight loads.
// Waiters on a forgotten load still receive its result.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru.Clear()
		for _, cl := range s.calls {
			cl.forgotten = true
		}
		s.calls = make(map[K]*call[V])
		s.mu.Unlock()
	}
}

// Keys returns the keys of all stored entries in no particular order.
func (c *ShardedCache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	for _, s := range c.shards {
		s.mu.RLock()
		for key := range s.entries {
			keys = append(keys, key)
		}
		s.mu.RUnlock()
	}
	return keys
}

// Len returns the total number of entries across all shards.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Capacity returns the per-shard capacity, 0 when unbounded.
func (c *ShardedCache[K, V]) Capacity() int {
	return c.capacity
}

// ShardLen returns the number of entries in each shard.
// Useful for debugging load distribution.
func (c *ShardedCache[K, V]) ShardLen() [DefaultShardCount]int {
	var lens [DefaultShardCount]int
	for i, s := range c.shards {
		s.mu.RLock()
		lens[i] = len(s.entries)
		s.mu.RUnlock()
	}
	return lens
}

// Stats holds cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the per-shard capacity, 0 when unbounded.
	Capacity int
	// Hits counts lookups served from a stored entry or a shared load.
	Hits uint64
	// Misses counts lookups that found nothing.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0.0 to 1.0.
	HitRate float64
	// Loads counts calls to a GetOrLoad load function.
	Loads uint64
	// Evictions counts entries removed to respect Capacity.
	Evictions uint64
}

// Stats returns current cache statistics.
// This operation is mostly lock-free (atomic counters).
func (c *ShardedCache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Loads:     c.loads.Load(),
		Evictions: c.evictions.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *ShardedCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.loads.Store(0)
	c.evictions.Store(0)
}
