package redis

import (
	"fmt"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

// Key prefix for all session-related data
const keyPrefix = "dawn"

// Key generation functions for each entity type

// presenceKey returns the Redis key for a PresenceRecord
func presenceKey(farmID model.FarmID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:presence:%d:%d", keyPrefix, farmID, playerID)
}

// presenceForFarmIndexKey returns the Redis key for the SET of player ids present in a farm
func presenceForFarmIndexKey(farmID model.FarmID) string {
	return fmt.Sprintf("%s:idx:presence_for_farm:%d", keyPrefix, farmID)
}

// presencePlayerIndexKey returns the Redis key for the player_id -> farm_id index
func presencePlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:presence_player:%d", keyPrefix, playerID)
}

// presenceConnIndexKey returns the Redis key for the connection_id -> (farm_id, player_id) index
func presenceConnIndexKey(connID model.ConnectionID) string {
	return fmt.Sprintf("%s:idx:presence_conn:%s", keyPrefix, connID)
}

// farmKey returns the Redis key for a Farm
func farmKey(id model.FarmID) string {
	return fmt.Sprintf("%s:farm:%d", keyPrefix, id)
}

// farmsForOwnerIndexKey returns the Redis key for the SET of farms owned by a player
func farmsForOwnerIndexKey(ownerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:farms_for_owner:%d", keyPrefix, ownerID)
}

// farmIDSeqKey returns the Redis key for the farm id sequence counter
func farmIDSeqKey() string {
	return fmt.Sprintf("%s:seq:farm_id", keyPrefix)
}

// playerIDSeqKey returns the Redis key for the player id sequence counter
func playerIDSeqKey() string {
	return fmt.Sprintf("%s:seq:player_id", keyPrefix)
}

// objectKey returns the Redis key for a PlacedObject
func objectKey(farmID model.FarmID, objectID string) string {
	return fmt.Sprintf("%s:object:%d:%s", keyPrefix, farmID, objectID)
}

// objectsForFarmIndexKey returns the Redis key for the SET of object ids placed in a farm
func objectsForFarmIndexKey(farmID model.FarmID) string {
	return fmt.Sprintf("%s:idx:objects_for_farm:%d", keyPrefix, farmID)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%d", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// inventoryKey returns the Redis key for a player's inventory HASH (field per item type)
func inventoryKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:inventory:%d", keyPrefix, playerID)
}
