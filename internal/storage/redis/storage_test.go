package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PresenceTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) presence(farmID model.FarmID, playerID model.PlayerID, connID model.ConnectionID) *model.PresenceRecord {
	return &model.PresenceRecord{
		FarmID:       farmID,
		PlayerID:     playerID,
		ConnectionID: connID,
		JoinedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// Presence tests

func (s *StorageSuite) TestSaveAndGetPresence() {
	err := s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))
	s.Require().NoError(err)

	record, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(model.FarmID(1), record.FarmID)
	s.Equal(model.ConnectionID("conn-a"), record.ConnectionID)
}

func (s *StorageSuite) TestGetPresenceNotFound() {
	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
}

func (s *StorageSuite) TestPresencePlayerIndex() {
	_ = s.storage.SavePresence(s.ctx, s.presence(7, 10, "conn-a"))

	record, err := s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.FarmID(7), record.FarmID)
}

func (s *StorageSuite) TestPresenceConnectionIndex() {
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))
	_ = s.storage.SavePresence(s.ctx, s.presence(2, 11, "conn-b"))

	record, err := s.storage.GetPresenceByConnection(s.ctx, "conn-b")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(11), record.PlayerID)

	_, err = s.storage.GetPresenceByConnection(s.ctx, "conn-z")
	s.ErrorIs(err, model.ErrPresenceNotFound)
}

func (s *StorageSuite) TestPresenceHasTTL() {
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
}

func (s *StorageSuite) TestListPresenceSkipsExpiredRecords() {
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))
	s.mini.FastForward(2 * time.Hour)
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 11, "conn-b"))

	records, err := s.storage.ListPresence(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal(model.PlayerID(11), records[0].PlayerID)
}

func (s *StorageSuite) TestDeletePresenceRemovesIndexes() {
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))

	s.Require().NoError(s.storage.DeletePresence(s.ctx, 1, 10))

	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
	_, err = s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
	_, err = s.storage.GetPresenceByConnection(s.ctx, "conn-a")
	s.ErrorIs(err, model.ErrPresenceNotFound)

	records, _ := s.storage.ListPresence(s.ctx, 1)
	s.Empty(records)
}

func (s *StorageSuite) TestDeletePresenceAbsentIsNoOp() {
	s.NoError(s.storage.DeletePresence(s.ctx, 1, 10))
}

func (s *StorageSuite) TestSavePresenceBatch() {
	updated := s.presence(1, 10, "conn-a")
	updated.Transformation = model.Transformation{PositionX: 5, RotationY: 90}

	err := s.storage.SavePresenceBatch(s.ctx, []*model.PresenceRecord{
		updated,
		s.presence(1, 11, "conn-b"),
	})
	s.Require().NoError(err)

	record, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(5.0, record.Transformation.PositionX)
	s.Equal(90.0, record.Transformation.RotationY)

	records, _ := s.storage.ListPresence(s.ctx, 1)
	s.Len(records, 2)
}

func (s *StorageSuite) TestDeletePresenceForFarm() {
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 10, "conn-a"))
	_ = s.storage.SavePresence(s.ctx, s.presence(1, 11, "conn-b"))
	_ = s.storage.SavePresence(s.ctx, s.presence(2, 12, "conn-c"))

	s.Require().NoError(s.storage.DeletePresenceForFarm(s.ctx, 1))

	records, _ := s.storage.ListPresence(s.ctx, 1)
	s.Empty(records)
	record, err := s.storage.GetPresenceByPlayer(s.ctx, 12)
	s.Require().NoError(err)
	s.Equal(model.FarmID(2), record.FarmID)
}

// Farm tests

func (s *StorageSuite) TestAllocateFarmIDIsSequential() {
	id1, err := s.storage.AllocateFarmID(s.ctx)
	s.Require().NoError(err)
	id2, err := s.storage.AllocateFarmID(s.ctx)
	s.Require().NoError(err)
	s.Equal(id1+1, id2)
}

func (s *StorageSuite) TestSaveAndGetFarm() {
	farm := &model.Farm{ID: 1, OwnerID: 10, Name: "Green Acres"}
	s.Require().NoError(s.storage.SaveFarm(s.ctx, farm))

	retrieved, err := s.storage.GetFarm(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Green Acres", retrieved.Name)
	s.Equal(model.PlayerID(10), retrieved.OwnerID)
}

func (s *StorageSuite) TestListFarmsByOwner() {
	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 1, OwnerID: 10})
	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 2, OwnerID: 10})
	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 3, OwnerID: 11})

	farms, err := s.storage.ListFarmsByOwner(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(farms, 2)
}

func (s *StorageSuite) TestDeleteFarmRemovesOwnerIndex() {
	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 1, OwnerID: 10})

	s.Require().NoError(s.storage.DeleteFarm(s.ctx, 1))

	_, err := s.storage.GetFarm(s.ctx, 1)
	s.ErrorIs(err, model.ErrFarmNotFound)
	farms, _ := s.storage.ListFarmsByOwner(s.ctx, 10)
	s.Empty(farms)
}

// Placed object tests

func (s *StorageSuite) TestPlacedObjectRoundTrip() {
	obj := &model.PlacedObject{
		ID:             "obj-1",
		FarmID:         1,
		Type:           "Barn",
		Transformation: model.Transformation{PositionX: 10, PositionY: 0, PositionZ: -5},
		PlacedBy:       10,
	}
	s.Require().NoError(s.storage.SavePlacedObject(s.ctx, obj))

	retrieved, err := s.storage.GetPlacedObject(s.ctx, 1, "obj-1")
	s.Require().NoError(err)
	s.Equal("Barn", retrieved.Type)
	s.Equal(obj.Transformation, retrieved.Transformation)

	objects, err := s.storage.ListPlacedObjects(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(objects, 1)
}

func (s *StorageSuite) TestDeletePlacedObjectsForFarm() {
	_ = s.storage.SavePlacedObject(s.ctx, &model.PlacedObject{ID: "obj-1", FarmID: 1})
	_ = s.storage.SavePlacedObject(s.ctx, &model.PlacedObject{ID: "obj-2", FarmID: 1})

	s.Require().NoError(s.storage.DeletePlacedObjectsForFarm(s.ctx, 1))

	objects, _ := s.storage.ListPlacedObjects(s.ctx, 1)
	s.Empty(objects)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: 10, DisplayName: "Alice", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestRegisteredPlayerUsernameIndex() {
	rp := &model.RegisteredPlayer{PlayerID: 10, Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID(10), retrieved.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Inventory tests

func (s *StorageSuite) TestInventoryHash() {
	s.Require().NoError(s.storage.SaveInventoryItem(s.ctx, &model.InventoryItem{
		PlayerID: 10, ItemType: "seed", Quantity: 3,
	}))
	s.Require().NoError(s.storage.SaveInventoryItem(s.ctx, &model.InventoryItem{
		PlayerID: 10, ItemType: "wood", Quantity: 7,
	}))

	item, err := s.storage.GetInventoryItem(s.ctx, 10, "seed")
	s.Require().NoError(err)
	s.Equal(3, item.Quantity)

	_, err = s.storage.GetInventoryItem(s.ctx, 10, "axe")
	s.ErrorIs(err, model.ErrItemNotFound)

	items, err := s.storage.GetInventory(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(items, 2)
}
