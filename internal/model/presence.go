package model

import "time"

// Transformation is a player's or object's position and rotation.
// Pure value type: always copied, never shared between records.
type Transformation struct {
	PositionX float64 `json:"positionX"`
	PositionY float64 `json:"positionY"`
	PositionZ float64 `json:"positionZ"`
	RotationX float64 `json:"rotationX"`
	RotationY float64 `json:"rotationY"`
	RotationZ float64 `json:"rotationZ"`
}

// PresenceRecord records a player currently joined to a farm.
// At most one record exists per PlayerID across all farms at any time;
// the session coordinator evicts any prior record before inserting a
// new one rather than relying on store-level uniqueness.
type PresenceRecord struct {
	FarmID         FarmID
	PlayerID       PlayerID
	ConnectionID   ConnectionID
	Transformation Transformation
	JoinedAt       time.Time
}
