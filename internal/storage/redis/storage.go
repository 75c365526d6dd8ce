package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Presence records keep two secondary indexes (player -> farm and
// connection -> record key) so the coordinator's eviction and
// disconnect lookups are single round trips.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, record *model.PresenceRecord) error {
	pipe := s.client.Pipeline()
	s.pipelinePresenceSave(ctx, pipe, record)
	_, err := pipe.Exec(ctx)
	return err
}

// pipelinePresenceSave queues the presence value write plus both index
// writes onto an existing pipeline
func (s *Storage) pipelinePresenceSave(ctx context.Context, pipe redis.Pipeliner, record *model.PresenceRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		// Marshal of a plain struct cannot fail; keep the pipeline consistent anyway
		return
	}

	ttl := s.cfg.PresenceTTL
	pipe.Set(ctx, presenceKey(record.FarmID, record.PlayerID), data, ttl)
	pipe.SAdd(ctx, presenceForFarmIndexKey(record.FarmID), int64(record.PlayerID))
	pipe.Set(ctx, presencePlayerIndexKey(record.PlayerID), int64(record.FarmID), ttl)
	pipe.Set(ctx, presenceConnIndexKey(record.ConnectionID),
		fmt.Sprintf("%d:%d", record.FarmID, record.PlayerID), ttl)
}

func (s *Storage) GetPresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) (*model.PresenceRecord, error) {
	data, err := s.client.Get(ctx, presenceKey(farmID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPresenceNotFound
		}
		return nil, err
	}

	var record model.PresenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) GetPresenceByPlayer(ctx context.Context, playerID model.PlayerID) (*model.PresenceRecord, error) {
	farmIDStr, err := s.client.Get(ctx, presencePlayerIndexKey(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPresenceNotFound
		}
		return nil, err
	}

	farmID, err := strconv.ParseInt(farmIDStr, 10, 64)
	if err != nil {
		return nil, model.ErrPresenceNotFound
	}
	return s.GetPresence(ctx, model.FarmID(farmID), playerID)
}

func (s *Storage) GetPresenceByConnection(ctx context.Context, connID model.ConnectionID) (*model.PresenceRecord, error) {
	ref, err := s.client.Get(ctx, presenceConnIndexKey(connID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPresenceNotFound
		}
		return nil, err
	}

	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return nil, model.ErrPresenceNotFound
	}
	farmID, err1 := strconv.ParseInt(parts[0], 10, 64)
	playerID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return nil, model.ErrPresenceNotFound
	}
	return s.GetPresence(ctx, model.FarmID(farmID), model.PlayerID(playerID))
}

func (s *Storage) ListPresence(ctx context.Context, farmID model.FarmID) ([]*model.PresenceRecord, error) {
	members, err := s.client.SMembers(ctx, presenceForFarmIndexKey(farmID)).Result()
	if err != nil {
		return nil, err
	}

	var records []*model.PresenceRecord
	for _, member := range members {
		playerID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		record, err := s.GetPresence(ctx, farmID, model.PlayerID(playerID))
		if errors.Is(err, model.ErrPresenceNotFound) {
			// Stale index entry (expired record); skip it
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Storage) DeletePresence(ctx context.Context, farmID model.FarmID, playerID model.PlayerID) error {
	record, err := s.GetPresence(ctx, farmID, playerID)
	if errors.Is(err, model.ErrPresenceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, presenceKey(farmID, playerID))
	pipe.SRem(ctx, presenceForFarmIndexKey(farmID), int64(playerID))
	pipe.Del(ctx, presencePlayerIndexKey(playerID))
	pipe.Del(ctx, presenceConnIndexKey(record.ConnectionID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeletePresenceForFarm(ctx context.Context, farmID model.FarmID) error {
	records, err := s.ListPresence(ctx, farmID)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, record := range records {
		pipe.Del(ctx, presenceKey(farmID, record.PlayerID))
		pipe.Del(ctx, presencePlayerIndexKey(record.PlayerID))
		pipe.Del(ctx, presenceConnIndexKey(record.ConnectionID))
	}
	pipe.Del(ctx, presenceForFarmIndexKey(farmID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) SavePresenceBatch(ctx context.Context, records []*model.PresenceRecord) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, record := range records {
		s.pipelinePresenceSave(ctx, pipe, record)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Farm operations

func (s *Storage) AllocateFarmID(ctx context.Context) (model.FarmID, error) {
	id, err := s.client.Incr(ctx, farmIDSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.FarmID(id), nil
}

func (s *Storage) SaveFarm(ctx context.Context, farm *model.Farm) error {
	data, err := json.Marshal(farm)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, farmKey(farm.ID), data, 0)
	pipe.SAdd(ctx, farmsForOwnerIndexKey(farm.OwnerID), int64(farm.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetFarm(ctx context.Context, id model.FarmID) (*model.Farm, error) {
	data, err := s.client.Get(ctx, farmKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrFarmNotFound
		}
		return nil, err
	}

	var farm model.Farm
	if err := json.Unmarshal(data, &farm); err != nil {
		return nil, err
	}
	return &farm, nil
}

func (s *Storage) ListFarmsByOwner(ctx context.Context, ownerID model.PlayerID) ([]*model.Farm, error) {
	members, err := s.client.SMembers(ctx, farmsForOwnerIndexKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}

	var farms []*model.Farm
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		farm, err := s.GetFarm(ctx, model.FarmID(id))
		if errors.Is(err, model.ErrFarmNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		farms = append(farms, farm)
	}
	return farms, nil
}

func (s *Storage) DeleteFarm(ctx context.Context, id model.FarmID) error {
	farm, err := s.GetFarm(ctx, id)
	if errors.Is(err, model.ErrFarmNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, farmKey(id))
	pipe.SRem(ctx, farmsForOwnerIndexKey(farm.OwnerID), int64(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Placed object operations

func (s *Storage) SavePlacedObject(ctx context.Context, obj *model.PlacedObject) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, objectKey(obj.FarmID, obj.ID), data, 0)
	pipe.SAdd(ctx, objectsForFarmIndexKey(obj.FarmID), obj.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlacedObject(ctx context.Context, farmID model.FarmID, objectID string) (*model.PlacedObject, error) {
	data, err := s.client.Get(ctx, objectKey(farmID, objectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrObjectNotFound
		}
		return nil, err
	}

	var obj model.PlacedObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (s *Storage) ListPlacedObjects(ctx context.Context, farmID model.FarmID) ([]*model.PlacedObject, error) {
	members, err := s.client.SMembers(ctx, objectsForFarmIndexKey(farmID)).Result()
	if err != nil {
		return nil, err
	}

	var objects []*model.PlacedObject
	for _, objectID := range members {
		obj, err := s.GetPlacedObject(ctx, farmID, objectID)
		if errors.Is(err, model.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (s *Storage) DeletePlacedObjectsForFarm(ctx context.Context, farmID model.FarmID) error {
	members, err := s.client.SMembers(ctx, objectsForFarmIndexKey(farmID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, objectID := range members {
		pipe.Del(ctx, objectKey(farmID, objectID))
	}
	pipe.Del(ctx, objectsForFarmIndexKey(farmID))
	_, err = pipe.Exec(ctx)
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) AllocatePlayerID(ctx context.Context) (model.PlayerID, error) {
	id, err := s.client.Incr(ctx, playerIDSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	return model.PlayerID(id), nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), int64(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	playerID, err := strconv.ParseInt(playerIDStr, 10, 64)
	if err != nil {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerID))
}

// Inventory operations
//
// A player's inventory is a single HASH keyed by item type, so quantity
// updates and full reads are each one command.

func (s *Storage) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	return s.client.HSet(ctx, inventoryKey(item.PlayerID), item.ItemType, item.Quantity).Err()
}

func (s *Storage) GetInventoryItem(ctx context.Context, playerID model.PlayerID, itemType string) (*model.InventoryItem, error) {
	val, err := s.client.HGet(ctx, inventoryKey(playerID), itemType).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrItemNotFound
		}
		return nil, err
	}

	quantity, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &model.InventoryItem{
		PlayerID: playerID,
		ItemType: itemType,
		Quantity: quantity,
	}, nil
}

func (s *Storage) GetInventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	fields, err := s.client.HGetAll(ctx, inventoryKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	var items []*model.InventoryItem
	for itemType, val := range fields {
		quantity, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		items = append(items, &model.InventoryItem{
			PlayerID: playerID,
			ItemType: itemType,
			Quantity: quantity,
		})
	}
	return items, nil
}
