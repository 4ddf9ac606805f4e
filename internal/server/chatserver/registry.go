package chatserver

import (
	"sync"
	"unicode/utf8"

	"github.com/yndnr/relaychat-go/pkg/frame"
)

// Registry is the set of authenticated connections that receive relays.
type Registry struct {
	mu      sync.RWMutex
	members map[*Conn]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[*Conn]struct{})}
}

// Add inserts c. Closed connections are not added.
func (r *Registry) Add(c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Closed() {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// Remove deletes c. Removing a non-member is a no-op.
func (r *Registry) Remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, c)
}

// Len returns the number of members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot returns the current members.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.members))
	for c := range r.members {
		out = append(out, c)
	}
	return out
}

// Delivery is the failed send of one broadcast to one member.
type Delivery struct {
	Conn *Conn
	Err  error
}

// Broadcast sends payload to every member except sender.
//
// Members are snapshotted first, so joins and leaves during delivery do not
// affect it. A failed send is reported and delivery continues.
func (r *Registry) Broadcast(sender *Conn, payload []byte) (delivered int, failed []Delivery) {
	for _, c := range r.Snapshot() {
		if c == sender {
			continue
		}
		if err := c.Send(payload); err != nil {
			failed = append(failed, Delivery{Conn: c, Err: err})
			continue
		}
		delivered++
	}
	return delivered, failed
}

// formatRelay builds "<username>: <msg>\n". The message is cut at a rune
// boundary when the result would not fit in one frame; truncated reports
// whether that happened. ok is false when even an empty message does not fit.
func formatRelay(username string, msg []byte) (payload []byte, truncated, ok bool) {
	overhead := len(username) + len(": ") + len("\n")
	room := frame.MaxPayload - overhead
	if room < 0 {
		return nil, false, false
	}
	if len(msg) > room {
		msg = msg[:room]
		if i := lastRuneStart(msg); i >= 0 && !utf8.FullRune(msg[i:]) {
			msg = msg[:i]
		}
		truncated = true
	}

	payload = make([]byte, 0, overhead+len(msg))
	payload = append(payload, username...)
	payload = append(payload, ": "...)
	payload = append(payload, msg...)
	payload = append(payload, '\n')
	return payload, truncated, true
}

func lastRuneStart(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			return i
		}
	}
	return -1
}
