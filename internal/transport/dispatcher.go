// Package transport defines the narrow boundary between the session
// coordinators and the real-time channel implementation. Coordinators
// only ever address the caller, a named group, or a specific
// connection; they never see sockets.
package transport

import (
	"context"
	"fmt"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

// Event is a server-to-client message before wire encoding
type Event struct {
	Type    model.EventType `json:"type"`
	Payload any             `json:"payload,omitempty"`
}

// Dispatcher is the outbound side of the real-time channel. Sends are
// best-effort: a failed or slow delivery to one connection must never
// block delivery to the others.
type Dispatcher interface {
	// AddToGroup joins a connection to a named broadcast group
	AddToGroup(group string, connID model.ConnectionID)
	// RemoveFromGroup removes a connection from a group; removing a
	// non-member is a no-op
	RemoveFromGroup(group string, connID model.ConnectionID)
	// SendToConnection delivers an event to a single connection
	SendToConnection(ctx context.Context, connID model.ConnectionID, event Event) error
	// SendToGroup delivers an event to every member of a group
	SendToGroup(ctx context.Context, group string, event Event) error
	// SendToGroupExcept delivers an event to every group member except
	// the given connection (typically the caller)
	SendToGroupExcept(ctx context.Context, group string, except model.ConnectionID, event Event) error
}

// FarmGroup returns the broadcast group name for a farm instance
func FarmGroup(farmID model.FarmID) string {
	return fmt.Sprintf("farm:%d", farmID)
}

// PlayerGroup returns the account-scoped group name for a player
func PlayerGroup(playerID model.PlayerID) string {
	return fmt.Sprintf("player:%d", playerID)
}
