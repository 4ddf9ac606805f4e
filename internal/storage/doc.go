// Package storage provides the durable key-value stores of relaychat.
//
// Two stores are kept, each in its own embedded KV engine:
//
//   - Credential store: username -> salted password hash
//   - Session store: session token -> username
//
// Engines:
//
//   - BadgerEngine: durable, one Badger directory per store
//   - memory.Engine: in-process sharded map, used by tests and ephemeral runs
//
// Every single-key write is one transaction, so a concurrent DropAll never
// observes a half-written record.
package storage
