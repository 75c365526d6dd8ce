package farm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/clock"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
)

// FarmState is a farm plus everything a client needs to render it:
// the durable objects and whoever is present right now.
type FarmState struct {
	Farm           *model.Farm
	Objects        []*model.PlacedObject
	PresentPlayers []model.PlayerID
}

// Service manages the durable farm records that sessions attach to
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new farm Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "farm")),
	}
}

// Create allocates an id and saves a new farm owned by the given player
func (s *Service) Create(ctx context.Context, ownerID model.PlayerID, name string) (*model.Farm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidFarmName
	}
	if _, err := s.storage.GetPlayer(ctx, ownerID); err != nil {
		return nil, err
	}

	farmID, err := s.storage.AllocateFarmID(ctx)
	if err != nil {
		return nil, err
	}

	farm := &model.Farm{
		ID:        farmID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveFarm(ctx, farm); err != nil {
		return nil, err
	}

	s.logger.Info("farm created",
		slog.Int64("farm_id", int64(farmID)),
		slog.Int64("owner_id", int64(ownerID)),
		slog.String("name", name))
	return farm, nil
}

// Get returns a farm with its placed objects and current occupants
func (s *Service) Get(ctx context.Context, farmID model.FarmID) (*FarmState, error) {
	farm, err := s.storage.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}

	objects, err := s.storage.ListPlacedObjects(ctx, farmID)
	if err != nil {
		return nil, err
	}

	occupants, err := s.storage.ListPresence(ctx, farmID)
	if err != nil {
		return nil, err
	}
	present := make([]model.PlayerID, 0, len(occupants))
	for _, occupant := range occupants {
		present = append(present, occupant.PlayerID)
	}

	return &FarmState{
		Farm:           farm,
		Objects:        objects,
		PresentPlayers: present,
	}, nil
}

// ListByOwner returns every farm the player owns
func (s *Service) ListByOwner(ctx context.Context, ownerID model.PlayerID) ([]*model.Farm, error) {
	return s.storage.ListFarmsByOwner(ctx, ownerID)
}

// Delete removes a farm and everything attached to it. Only the owner
// may delete; placed objects and any lingering presence records go
// with the farm.
func (s *Service) Delete(ctx context.Context, farmID model.FarmID, callerID model.PlayerID) error {
	farm, err := s.storage.GetFarm(ctx, farmID)
	if err != nil {
		return err
	}
	if farm.OwnerID != callerID {
		return model.ErrNotFarmOwner
	}

	if err := s.storage.DeletePlacedObjectsForFarm(ctx, farmID); err != nil {
		return err
	}
	if err := s.storage.DeletePresenceForFarm(ctx, farmID); err != nil {
		return err
	}
	if err := s.storage.DeleteFarm(ctx, farmID); err != nil {
		return err
	}

	s.logger.Info("farm deleted",
		slog.Int64("farm_id", int64(farmID)),
		slog.Int64("owner_id", int64(callerID)))
	return nil
}
