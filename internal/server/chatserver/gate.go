package chatserver

import (
	"context"
	"sync"
)

// Gate is a process wide Running/Paused switch.
//
// The zero value is not usable; use NewGate.
type Gate struct {
	mu   sync.Mutex
	open chan struct{} // closed while running
}

// NewGate returns a gate in the Running state.
func NewGate() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{open: ch}
}

// Pause switches to Paused. Pausing a paused gate is a no-op.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
	}
}

// Unpause switches to Running and releases all waiters.
func (g *Gate) Unpause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
	default:
		close(g.open)
	}
}

// Paused reports whether the gate is paused.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return false
	default:
		return true
	}
}

// Wait blocks until the gate is Running or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
