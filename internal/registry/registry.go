// Package registry maps player identities to their current live
// transport connection. One instance exists per presence scope (farm
// sessions, account-wide inventory), constructed at startup and passed
// into the coordinator that owns it.
package registry

import (
	"sync"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

// Registry is a concurrent player -> connection map enforcing at most
// one live connection per player within its scope
type Registry struct {
	mu      sync.RWMutex
	byPlay  map[model.PlayerID]model.ConnectionID
	byConn  map[model.ConnectionID]model.PlayerID
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		byPlay: make(map[model.PlayerID]model.ConnectionID),
		byConn: make(map[model.ConnectionID]model.PlayerID),
	}
}

// Register records connID as the player's live connection. If the
// player was already registered under a different connection, that
// connection id is returned so the caller can kick it. Re-registering
// the same connection is idempotent.
func (r *Registry) Register(playerID model.PlayerID, connID model.ConnectionID) (model.ConnectionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byPlay[playerID]
	if ok && old == connID {
		return "", false
	}
	if ok {
		delete(r.byConn, old)
	}
	r.byPlay[playerID] = connID
	r.byConn[connID] = playerID
	if ok {
		return old, true
	}
	return "", false
}

// Unregister removes the entry for connID and returns the player it
// belonged to. Unregistering a connection that is not present is a
// silent no-op, not an error: transport drops for already-cleaned-up
// connections are the steady state.
func (r *Registry) Unregister(connID model.ConnectionID) (model.PlayerID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, ok := r.byConn[connID]
	if !ok {
		return 0, false
	}
	delete(r.byConn, connID)
	// Only remove the forward mapping if it still points at this
	// connection; a newer registration may have replaced it already.
	if cur, ok := r.byPlay[playerID]; ok && cur == connID {
		delete(r.byPlay, playerID)
	}
	return playerID, true
}

// Lookup returns the live connection for a player, if any
func (r *Registry) Lookup(playerID model.PlayerID) (model.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byPlay[playerID]
	return connID, ok
}

// Len returns the number of registered players
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPlay)
}
