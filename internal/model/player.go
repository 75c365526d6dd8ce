package model

import "time"

// PlayerID uniquely identifies a player account across the system
type PlayerID int64

// ConnectionID identifies a single live transport connection.
// Assigned server-side when a socket is accepted; never reused.
type ConnectionID string

// Player represents a game account
type Player struct {
	ID          PlayerID
	DisplayName string
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
