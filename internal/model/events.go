package model

// EventType identifies a message on the real-time wire surface
type EventType string

// Client-to-server calls
const (
	CallJoinFarm             EventType = "join_farm"
	CallLeaveFarm            EventType = "leave_farm"
	CallUpdateTransformation EventType = "update_player_transformation"
	CallPlaceObject          EventType = "place_object"
	CallConnect              EventType = "connect"
)

// Server-to-client events
const (
	EventJoinFarmFailed               EventType = "join_farm_failed"
	EventInitialPlayers               EventType = "initial_players"
	EventPlayerJoined                 EventType = "player_joined"
	EventPlayerLeft                   EventType = "player_left"
	EventPlayerTransformationUpdated  EventType = "player_transformation_updated"
	EventObjectPlaced                 EventType = "object_placed"
	EventKicked                       EventType = "kicked"
	EventInventoryUpdated             EventType = "inventory_updated"
)

// JoinFarmCall is the payload for a join_farm call
type JoinFarmCall struct {
	FarmID   string   `json:"farmId"`
	PlayerID PlayerID `json:"playerId"`
}

// LeaveFarmCall is the payload for a leave_farm call
type LeaveFarmCall struct {
	FarmID   string   `json:"farmId"`
	PlayerID PlayerID `json:"playerId"`
}

// UpdateTransformationCall is the payload for an update_player_transformation call
type UpdateTransformationCall struct {
	FarmID         string         `json:"farmId"`
	PlayerID       PlayerID       `json:"playerId"`
	Transformation Transformation `json:"transformation"`
}

// PlaceObjectCall is the payload for a place_object call
type PlaceObjectCall struct {
	FarmID         string         `json:"farmId"`
	PlayerID       PlayerID       `json:"playerId"`
	Type           string         `json:"type"`
	Transformation Transformation `json:"transformation"`
}

// ConnectCall is the payload for an account-scope connect call
type ConnectCall struct {
	PlayerID PlayerID `json:"playerId"`
}

// JoinFarmFailedPayload is sent only to the caller when a join is rejected
type JoinFarmFailedPayload struct {
	Reason string `json:"reason"`
}

// InitialPlayersPayload is the occupant snapshot sent to a joining caller.
// Never includes the caller's own player id.
type InitialPlayersPayload struct {
	PlayerIDs []PlayerID `json:"playerIds"`
}

// PlayerJoinedPayload announces a new occupant to the rest of the farm group
type PlayerJoinedPayload struct {
	PlayerID PlayerID `json:"playerId"`
}

// PlayerLeftPayload announces a departed occupant to the rest of the farm group
type PlayerLeftPayload struct {
	PlayerID PlayerID `json:"playerId"`
}

// TransformationUpdatedPayload echoes a movement update to the rest of the group
type TransformationUpdatedPayload struct {
	PlayerID       PlayerID       `json:"playerId"`
	Transformation Transformation `json:"transformation"`
}

// ObjectPlacedPayload echoes a placement to the whole farm group,
// including the placer
type ObjectPlacedPayload struct {
	ObjectID       string         `json:"objectId"`
	Type           string         `json:"type"`
	Transformation Transformation `json:"transformation"`
}

// KickedPayload is sent to a stale connection when its session is superseded
type KickedPayload struct {
	Reason string `json:"reason"`
}

// InventoryUpdatedPayload pushes an inventory change to the account group
type InventoryUpdatedPayload struct {
	ItemType string `json:"itemType"`
	Delta    int    `json:"delta"`
}
