// Package cache provides a generic, sharded, concurrency-safe cache.
//
// ShardedCache splits its keys over 16 shards, each guarded by its own
// RWMutex, so lookups of unrelated keys rarely contend. Loads are coalesced
// per key:
//
//	c := cache.NewSharded[string, *Image](0, cache.StringHasher)
//	img, shared, err := c.GetOrLoad(name, func() (*Image, error) {
//		return decode(name)
//	})
//
// The load function runs outside the shard lock and at most once per key
// at a time; failed loads are not stored. A positive capacity bounds each
// shard with LRU eviction; zero keeps every entry until it is deleted.
//
// ShardedCache is safe for concurrent use and must not be copied after
// creation.
package cache
