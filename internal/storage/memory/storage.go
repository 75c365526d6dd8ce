package memory

import (
	"context"
	"sync"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	presence          map[presenceKey]*model.PresenceRecord
	farms             map[model.FarmID]*model.Farm
	objects           map[objectKey]*model.PlacedObject
	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	inventory         map[inventoryKey]*model.InventoryItem

	nextFarmID   int64
	nextPlayerID int64
}

type presenceKey struct {
	farmID   model.FarmID
	playerID model.PlayerID
}

type objectKey struct {
	farmID   model.FarmID
	objectID string
}

type inventoryKey struct {
	playerID model.PlayerID
	itemType string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		presence:          make(map[presenceKey]*model.PresenceRecord),
		farms:             make(map[model.FarmID]*model.Farm),
		objects:           make(map[objectKey]*model.PlacedObject),
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		inventory:         make(map[inventoryKey]*model.InventoryItem),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, record *model.PresenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.presence[presenceKey{farmID: record.FarmID, playerID: record.PlayerID}] = &copied
	return nil
}

func (s *Storage) GetPresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) (*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.presence[presenceKey{farmID: farmID, playerID: playerID}]
	if !ok {
		return nil, model.ErrPresenceNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *Storage) GetPresenceByPlayer(ctx context.Context, playerID model.PlayerID) (*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, record := range s.presence {
		if key.playerID == playerID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, model.ErrPresenceNotFound
}

func (s *Storage) GetPresenceByConnection(ctx context.Context, connID model.ConnectionID) (*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.presence {
		if record.ConnectionID == connID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, model.ErrPresenceNotFound
}

func (s *Storage) ListPresence(ctx context.Context, farmID model.FarmID) ([]*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.PresenceRecord
	for key, record := range s.presence {
		if key.farmID == farmID {
			copied := *record
			records = append(records, &copied)
		}
	}
	return records, nil
}

func (s *Storage) DeletePresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presence, presenceKey{farmID: farmID, playerID: playerID})
	return nil
}

func (s *Storage) DeletePresenceForFarm(ctx context.Context, farmID model.FarmID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.presence {
		if key.farmID == farmID {
			delete(s.presence, key)
		}
	}
	return nil
}

func (s *Storage) SavePresenceBatch(ctx context.Context, records []*model.PresenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		copied := *record
		s.presence[presenceKey{farmID: record.FarmID, playerID: record.PlayerID}] = &copied
	}
	return nil
}

// Farm operations

func (s *Storage) AllocateFarmID(ctx context.Context) (model.FarmID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFarmID++
	return model.FarmID(s.nextFarmID), nil
}

func (s *Storage) SaveFarm(ctx context.Context, farm *model.Farm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *farm
	s.farms[farm.ID] = &copied
	return nil
}

func (s *Storage) GetFarm(ctx context.Context, id model.FarmID) (*model.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	farm, ok := s.farms[id]
	if !ok {
		return nil, model.ErrFarmNotFound
	}
	copied := *farm
	return &copied, nil
}

func (s *Storage) ListFarmsByOwner(ctx context.Context, ownerID model.PlayerID) ([]*model.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var farms []*model.Farm
	for _, farm := range s.farms {
		if farm.OwnerID == ownerID {
			copied := *farm
			farms = append(farms, &copied)
		}
	}
	return farms, nil
}

func (s *Storage) DeleteFarm(ctx context.Context, id model.FarmID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.farms, id)
	return nil
}

// Placed object operations

func (s *Storage) SavePlacedObject(ctx context.Context, obj *model.PlacedObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *obj
	s.objects[objectKey{farmID: obj.FarmID, objectID: obj.ID}] = &copied
	return nil
}

func (s *Storage) GetPlacedObject(ctx context.Context, farmID model.FarmID, objectID string) (*model.PlacedObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectKey{farmID: farmID, objectID: objectID}]
	if !ok {
		return nil, model.ErrObjectNotFound
	}
	copied := *obj
	return &copied, nil
}

func (s *Storage) ListPlacedObjects(ctx context.Context, farmID model.FarmID) ([]*model.PlacedObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var objects []*model.PlacedObject
	for key, obj := range s.objects {
		if key.farmID == farmID {
			copied := *obj
			objects = append(objects, &copied)
		}
	}
	return objects, nil
}

func (s *Storage) DeletePlacedObjectsForFarm(ctx context.Context, farmID model.FarmID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if key.farmID == farmID {
			delete(s.objects, key)
		}
	}
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) AllocatePlayerID(ctx context.Context) (model.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPlayerID++
	return model.PlayerID(s.nextPlayerID), nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rp
	s.registeredPlayers[rp.PlayerID] = &copied
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *rp
	return &copied, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *rp
	return &copied, nil
}

// Inventory operations

func (s *Storage) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *item
	s.inventory[inventoryKey{playerID: item.PlayerID, itemType: item.ItemType}] = &copied
	return nil
}

func (s *Storage) GetInventoryItem(ctx context.Context, playerID model.PlayerID, itemType string) (*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.inventory[inventoryKey{playerID: playerID, itemType: itemType}]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*model.InventoryItem
	for key, item := range s.inventory {
		if key.playerID == playerID {
			copied := *item
			items = append(items, &copied)
		}
	}
	return items, nil
}
