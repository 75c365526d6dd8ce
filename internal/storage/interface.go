package storage

import (
	"context"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Presence operations
	SavePresence(ctx context.Context, record *model.PresenceRecord) error
	GetPresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) (*model.PresenceRecord, error)
	// GetPresenceByPlayer finds a player's presence record regardless of
	// which farm it is in (at most one exists, by invariant)
	GetPresenceByPlayer(ctx context.Context, playerID model.PlayerID) (*model.PresenceRecord, error)
	// GetPresenceByConnection finds the presence record whose connection
	// id matches (at most one exists, by invariant)
	GetPresenceByConnection(ctx context.Context, connID model.ConnectionID) (*model.PresenceRecord, error)
	ListPresence(ctx context.Context, farmID model.FarmID) ([]*model.PresenceRecord, error)
	DeletePresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) error
	DeletePresenceForFarm(ctx context.Context, farmID model.FarmID) error
	// SavePresenceBatch commits a set of presence updates in one batch
	SavePresenceBatch(ctx context.Context, records []*model.PresenceRecord) error

	// Farm operations
	AllocateFarmID(ctx context.Context) (model.FarmID, error)
	SaveFarm(ctx context.Context, farm *model.Farm) error
	GetFarm(ctx context.Context, id model.FarmID) (*model.Farm, error)
	ListFarmsByOwner(ctx context.Context, ownerID model.PlayerID) ([]*model.Farm, error)
	DeleteFarm(ctx context.Context, id model.FarmID) error

	// Placed object operations
	SavePlacedObject(ctx context.Context, obj *model.PlacedObject) error
	GetPlacedObject(ctx context.Context, farmID model.FarmID, objectID string) (*model.PlacedObject, error)
	ListPlacedObjects(ctx context.Context, farmID model.FarmID) ([]*model.PlacedObject, error)
	DeletePlacedObjectsForFarm(ctx context.Context, farmID model.FarmID) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	AllocatePlayerID(ctx context.Context) (model.PlayerID, error)

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Inventory operations
	SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error
	GetInventoryItem(ctx context.Context, playerID model.PlayerID, itemType string) (*model.InventoryItem, error)
	GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error)
}
