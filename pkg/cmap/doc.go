// Package cmap provides a string-keyed map sharded over independently
// locked buckets.
//
// Usage:
//
//	m := cmap.New[[]byte]()
//	m.Set("key", value)
//	val, ok := m.Get("key")
//
// Reads take a shard read lock and writes a shard write lock. Range and
// KeysWithPrefix visit shards one at a time, so they do not observe a
// single point-in-time view of the whole map.
package cmap
