package ws

import "sync"

// Identity binds a live connection to an authenticated player.
type Identity struct {
	ConnID   string
	UserID   int64
	Username string
	Rating   int
}

// Registry maps connection ids to identities. The server trusts whatever
// identity the auth frame carries; verification belongs to the identity
// service that issued the token.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Identity
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Identity)}
}

// Register records the identity for a connection, overwriting any prior
// association for the same connection id.
func (r *Registry) Register(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id.ConnID] = id
}

func (r *Registry) Lookup(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.conns[connID]
	return id, ok
}

// Remove drops the association for a connection; no-op if absent.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
