// Package live pushes periodic analytics snapshots to open websocket
// connections.
package live

import (
	"sync"

	"github.com/okian/resumerank/pkg/metrics"
)

// Conn is the write side of one client connection.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Registry is the set of open connections. Broadcasts iterate over a copy
// so connections can come and go mid-broadcast.
type Registry struct {
	mu    sync.Mutex
	conns map[Conn]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[Conn]struct{})}
}

// Add registers c and returns the new connection count.
func (r *Registry) Add(c Conn) int {
	r.mu.Lock()
	r.conns[c] = struct{}{}
	n := len(r.conns)
	r.mu.Unlock()
	metrics.UpdateLiveConnections(n)
	return n
}

// Remove unregisters c. It reports whether c was registered.
func (r *Registry) Remove(c Conn) bool {
	r.mu.Lock()
	_, ok := r.conns[c]
	delete(r.conns, c)
	n := len(r.conns)
	r.mu.Unlock()
	if ok {
		metrics.UpdateLiveConnections(n)
	}
	return ok
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Snapshot copies the current connection set.
func (r *Registry) Snapshot() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Conn, 0, len(r.conns))
	for c := range r.conns {
		out = append(out, c)
	}
	return out
}

// CloseAll closes and removes every connection.
func (r *Registry) CloseAll() {
	for _, c := range r.Snapshot() {
		if r.Remove(c) {
			_ = c.Close()
		}
	}
}
