// Package memory provides an in-process KV engine for relaychat.
//
// Engine satisfies storage.KVEngine on top of a sharded concurrent map.
// Nothing is persisted; it backs tests and the "memory" storage engine
// setting for throwaway servers.
//
// All operations are thread-safe through per-shard locking.
package memory
