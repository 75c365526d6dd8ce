package movement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

// DefaultFlushInterval is how often pending transformations are
// persisted when no interval is configured
const DefaultFlushInterval = 5 * time.Second

// Service relays movement updates. Broadcast is always immediate and
// un-throttled; persistence is always batched through the write-behind
// queue. The two never share a code path, so persistence latency can
// never gate real-time fan-out.
type Service struct {
	storage       storage.Storage
	dispatcher    transport.Dispatcher
	queue         *Queue
	logger        *slog.Logger
	flushInterval time.Duration
}

// New creates a new movement Service
func New(
	store storage.Storage,
	dispatcher transport.Dispatcher,
	queue *Queue,
	logger *slog.Logger,
	flushInterval time.Duration,
) *Service {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &Service{
		storage:       store,
		dispatcher:    dispatcher,
		queue:         queue,
		logger:        logger.With(slog.String("component", "movement")),
		flushInterval: flushInterval,
	}
}

// Update relays a movement update to the rest of the farm group and
// buffers it for the next flush. The broadcast happens on every call;
// the client controls its own send rate.
func (s *Service) Update(ctx context.Context, farmIDStr string, playerID model.PlayerID, connID model.ConnectionID, t model.Transformation) error {
	farmID, err := model.ParseFarmID(farmIDStr)
	if err != nil {
		return err
	}

	sendErr := s.dispatcher.SendToGroupExcept(ctx, transport.FarmGroup(farmID), connID, transport.Event{
		Type: model.EventPlayerTransformationUpdated,
		Payload: model.TransformationUpdatedPayload{
			PlayerID:       playerID,
			Transformation: t,
		},
	})

	// Buffer regardless of broadcast outcome; the flusher owns durability.
	s.queue.Put(farmID, playerID, t)

	return sendErr
}

// Run flushes the write-behind queue on a fixed interval until the
// context is cancelled. A final flush runs at shutdown so buffered
// updates are not lost.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("transformation flusher started",
		slog.Duration("interval", s.flushInterval))

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.logger.Error("transformation flush failed",
					slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			if err := s.Flush(context.WithoutCancel(ctx)); err != nil {
				s.logger.Error("final transformation flush failed",
					slog.String("error", err.Error()))
			}
			s.logger.Info("transformation flusher stopped")
			return
		}
	}
}

// Flush drains the queue, applies each pending transformation to its
// presence record and commits them in one batch. Entries whose presence
// record no longer exists (the player already left) are dropped
// silently, not retried. Entries that hit a storage error are requeued
// for the next flush, so one failing key never discards the rest of
// the drained batch.
func (s *Service) Flush(ctx context.Context) error {
	entries := s.queue.Drain()
	if len(entries) == 0 {
		return nil
	}

	records := make([]*model.PresenceRecord, 0, len(entries))
	batched := make([]Entry, 0, len(entries))
	var failed []Entry
	var firstErr error
	for _, entry := range entries {
		record, err := s.storage.GetPresence(ctx, entry.FarmID, entry.PlayerID)
		if errors.Is(err, model.ErrPresenceNotFound) {
			continue
		}
		if err != nil {
			failed = append(failed, entry)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		record.Transformation = entry.Transformation
		records = append(records, record)
		batched = append(batched, entry)
	}

	if len(records) > 0 {
		if err := s.storage.SavePresenceBatch(ctx, records); err != nil {
			failed = append(failed, batched...)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(failed) > 0 {
		s.queue.Requeue(failed)
		return firstErr
	}

	s.logger.Debug("transformations flushed",
		slog.Int("pending", len(entries)),
		slog.Int("persisted", len(records)))
	return nil
}
