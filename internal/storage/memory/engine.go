package memory

import (
	"bytes"
	"context"
	"sort"
	"sync/atomic"

	"github.com/yndnr/relaychat-go/internal/storage"
	"github.com/yndnr/relaychat-go/pkg/cmap"
)

// Engine is a non-durable storage.KVEngine.
type Engine struct {
	data   *cmap.Map[[]byte]
	closed atomic.Bool
}

var _ storage.KVEngine = (*Engine)(nil)

// New creates an empty engine.
func New() *Engine {
	return &Engine{data: cmap.New[[]byte]()}
}

// Get returns a copy of the value stored under key.
func (e *Engine) Get(_ context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, storage.ErrClosed
	}
	v, ok := e.data.Get(string(key))
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

// Set stores a copy of value under key.
func (e *Engine) Set(_ context.Context, key, value []byte) error {
	if e.closed.Load() {
		return storage.ErrClosed
	}
	e.data.Set(string(key), bytes.Clone(value))
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (e *Engine) Delete(_ context.Context, key []byte) error {
	if e.closed.Load() {
		return storage.ErrClosed
	}
	e.data.Delete(string(key))
	return nil
}

// Scan visits keys with the given prefix in ascending key order.
func (e *Engine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return storage.ErrClosed
	}

	keys := e.data.KeysWithPrefix(string(prefix))
	sort.Strings(keys)

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, ok := e.data.Get(k)
		if !ok {
			continue // deleted since the snapshot
		}
		if !fn([]byte(k), bytes.Clone(v)) {
			break
		}
	}
	return nil
}

// DropAll removes every key.
func (e *Engine) DropAll(_ context.Context) error {
	if e.closed.Load() {
		return storage.ErrClosed
	}
	e.data.Clear()
	return nil
}

// Len returns the number of stored keys.
func (e *Engine) Len() int {
	return e.data.Count()
}

// Close marks the engine closed. It is idempotent.
func (e *Engine) Close() error {
	e.closed.Store(true)
	return nil
}
