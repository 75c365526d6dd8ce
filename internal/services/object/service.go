package object

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/clock"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

// Service records object placements against a farm and rebroadcasts
// them. Object ids are generated server-side; a caller-supplied id is
// never accepted, which rules out collisions and spoofing.
type Service struct {
	storage    storage.Storage
	dispatcher transport.Dispatcher
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a new object Service
func New(store storage.Storage, dispatcher transport.Dispatcher, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:    store,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger.With(slog.String("component", "object")),
	}
}

// Place records a placed object and echoes it to the whole farm group,
// including the placer, which treats the echo as its consistency
// confirmation. The broadcast precedes the durable write: a placement
// that fails to persist has still been announced. That is the accepted
// tradeoff; the failure is logged and surfaced to the caller, never
// retried, and never retracts the broadcast.
func (s *Service) Place(ctx context.Context, farmIDStr string, playerID model.PlayerID, objType string, t model.Transformation) (*model.PlacedObject, error) {
	farmID, err := model.ParseFarmID(farmIDStr)
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.GetFarm(ctx, farmID); err != nil {
		return nil, err
	}

	obj := &model.PlacedObject{
		ID:             uuid.NewString(),
		FarmID:         farmID,
		Type:           objType,
		Transformation: t,
		PlacedBy:       playerID,
		PlacedAt:       s.clock.Now(),
	}

	_ = s.dispatcher.SendToGroup(ctx, transport.FarmGroup(farmID), transport.Event{
		Type: model.EventObjectPlaced,
		Payload: model.ObjectPlacedPayload{
			ObjectID:       obj.ID,
			Type:           obj.Type,
			Transformation: obj.Transformation,
		},
	})

	if err := s.storage.SavePlacedObject(ctx, obj); err != nil {
		s.logger.Error("placed object not persisted",
			slog.String("object_id", obj.ID),
			slog.Int64("farm_id", int64(farmID)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.Info("object placed",
		slog.String("object_id", obj.ID),
		slog.String("type", obj.Type),
		slog.Int64("farm_id", int64(farmID)),
		slog.Int64("player_id", int64(playerID)))
	return obj, nil
}
