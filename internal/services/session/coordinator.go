package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/clock"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/registry"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

const (
	// KickReasonSuperseded is sent to a stale connection when the same
	// player joins from elsewhere
	KickReasonSuperseded = "Logged in elsewhere"
	// JoinFailureInvalidFarm is the join rejection reason for an
	// unparseable or unknown farm id
	JoinFailureInvalidFarm = "Invalid farm ID"
)

// Coordinator manages farm session state: join, leave and disconnect.
// It owns the single-session-per-player invariant: at most one
// PresenceRecord exists per player across all farms, enforced by
// evicting any prior session before inserting the new one.
//
// Membership changes within one farm are serialized by a per-farm lock
// so a joiner's InitialPlayers snapshot and the PlayerJoined broadcasts
// of concurrent joiners never overlap. There is no cross-farm lock.
type Coordinator struct {
	storage    storage.Storage
	dispatcher transport.Dispatcher
	registry   *registry.Registry
	clock      clock.Clock
	logger     *slog.Logger

	farmMu    sync.Mutex
	farmLocks map[model.FarmID]*farmLock
}

// farmLock is one farm's refcounted membership lock
type farmLock struct {
	mu   sync.Mutex
	refs int
}

// NewCoordinator creates a new session Coordinator
func NewCoordinator(
	store storage.Storage,
	dispatcher transport.Dispatcher,
	reg *registry.Registry,
	clk clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage:    store,
		dispatcher: dispatcher,
		registry:   reg,
		clock:      clk,
		logger:     logger.With(slog.String("component", "session")),
		farmLocks:  make(map[model.FarmID]*farmLock),
	}
}

// lockFarm acquires the membership lock for one farm and returns its
// release func. Entries are refcounted and dropped on last release, so
// the lock map tracks farms with in-flight membership changes rather
// than every farm ever joined.
func (c *Coordinator) lockFarm(farmID model.FarmID) func() {
	c.farmMu.Lock()
	lock, ok := c.farmLocks[farmID]
	if !ok {
		lock = &farmLock{}
		c.farmLocks[farmID] = lock
	}
	lock.refs++
	c.farmMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		c.farmMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(c.farmLocks, farmID)
		}
		c.farmMu.Unlock()
	}
}

// Join enters a player into a farm session. The farm id arrives in wire
// form (string); a malformed or unknown id is reported to the caller
// only, leaving all session state untouched. Any existing session for
// the player (possibly in a different farm) is evicted before the new
// presence record is created, so two records for one player never
// coexist, regardless of how concurrent joins interleave.
func (c *Coordinator) Join(ctx context.Context, farmIDStr string, playerID model.PlayerID, connID model.ConnectionID) error {
	farmID, err := model.ParseFarmID(farmIDStr)
	if err == nil {
		_, err = c.storage.GetFarm(ctx, farmID)
	}
	if err != nil {
		if errors.Is(err, model.ErrInvalidFarmID) || errors.Is(err, model.ErrFarmNotFound) {
			_ = c.dispatcher.SendToConnection(ctx, connID, transport.Event{
				Type:    model.EventJoinFarmFailed,
				Payload: model.JoinFarmFailedPayload{Reason: JoinFailureInvalidFarm},
			})
		}
		return err
	}

	// Eviction must complete before the new record exists.
	if err := c.replaceExistingSession(ctx, farmID, playerID, connID); err != nil {
		return err
	}

	unlock := c.lockFarm(farmID)
	defer unlock()

	// A concurrent join by the same player may have superseded this
	// connection while it waited for the lock. The newer session wins.
	if current, ok := c.registry.Lookup(playerID); !ok || current != connID {
		c.logger.Warn("join superseded before insert",
			slog.Int64("player_id", int64(playerID)),
			slog.String("connection_id", string(connID)))
		return nil
	}

	group := transport.FarmGroup(farmID)
	c.dispatcher.AddToGroup(group, connID)

	record := &model.PresenceRecord{
		FarmID:       farmID,
		PlayerID:     playerID,
		ConnectionID: connID,
		JoinedAt:     c.clock.Now(),
	}
	if err := c.storage.SavePresence(ctx, record); err != nil {
		c.dispatcher.RemoveFromGroup(group, connID)
		return err
	}

	// Re-check after the insert: a cross-farm join takes a different
	// lock, so supersession can still land between the check above and
	// the save. Roll back this connection's own record only.
	if current, ok := c.registry.Lookup(playerID); !ok || current != connID {
		c.dispatcher.RemoveFromGroup(group, connID)
		stored, err := c.storage.GetPresence(ctx, farmID, playerID)
		if err == nil && stored.ConnectionID == connID {
			_ = c.storage.DeletePresence(ctx, farmID, playerID)
		}
		c.logger.Warn("join superseded mid-flight",
			slog.Int64("player_id", int64(playerID)),
			slog.String("connection_id", string(connID)))
		return nil
	}

	occupants, err := c.storage.ListPresence(ctx, farmID)
	if err != nil {
		return err
	}
	others := make([]model.PlayerID, 0, len(occupants))
	for _, occupant := range occupants {
		if occupant.PlayerID != playerID {
			others = append(others, occupant.PlayerID)
		}
	}

	if err := c.dispatcher.SendToConnection(ctx, connID, transport.Event{
		Type:    model.EventInitialPlayers,
		Payload: model.InitialPlayersPayload{PlayerIDs: others},
	}); err != nil {
		return err
	}

	c.logger.Info("player joined farm",
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("farm_id", int64(farmID)),
		slog.String("connection_id", string(connID)),
		slog.Int("occupants", len(occupants)))

	return c.dispatcher.SendToGroupExcept(ctx, group, connID, transport.Event{
		Type:    model.EventPlayerJoined,
		Payload: model.PlayerJoinedPayload{PlayerID: playerID},
	})
}

// replaceExistingSession kicks and removes any live session the player
// already holds, in any farm. The old connection receives exactly one
// Kicked event per supersession; a re-join from the connection that
// already owns the session is a move, not a supersession, and is never
// kicked. Either way the old farm's group membership and its remaining
// occupants' view are settled before the new record exists.
func (c *Coordinator) replaceExistingSession(ctx context.Context, farmID model.FarmID, playerID model.PlayerID, connID model.ConnectionID) error {
	evicted, hadEvicted := c.registry.Register(playerID, connID)

	old, err := c.storage.GetPresenceByPlayer(ctx, playerID)
	if errors.Is(err, model.ErrPresenceNotFound) {
		// Registered for the scope but never joined a farm; nothing to
		// remove, but a distinct stale connection still gets kicked.
		if hadEvicted && evicted != connID {
			c.kick(ctx, evicted)
		}
		return nil
	}
	if err != nil {
		return err
	}

	sameConn := old.ConnectionID == connID
	if !sameConn {
		c.kick(ctx, old.ConnectionID)
	}
	// Group membership must always follow the presence record out, or
	// leaving connections keep receiving the old farm's broadcasts.
	// Staying in the same farm on a new connection re-adds below.
	c.dispatcher.RemoveFromGroup(transport.FarmGroup(old.FarmID), old.ConnectionID)

	if err := c.storage.DeletePresence(ctx, old.FarmID, old.PlayerID); err != nil {
		return err
	}

	// On a cross-farm move the old farm's occupants see a departure;
	// within one farm the player never stops being present.
	if old.FarmID != farmID {
		_ = c.dispatcher.SendToGroupExcept(ctx, transport.FarmGroup(old.FarmID), old.ConnectionID, transport.Event{
			Type:    model.EventPlayerLeft,
			Payload: model.PlayerLeftPayload{PlayerID: playerID},
		})
	}

	if !sameConn {
		c.logger.Info("session superseded",
			slog.Int64("player_id", int64(playerID)),
			slog.Int64("old_farm_id", int64(old.FarmID)),
			slog.String("old_connection_id", string(old.ConnectionID)))
	}
	return nil
}

func (c *Coordinator) kick(ctx context.Context, connID model.ConnectionID) {
	_ = c.dispatcher.SendToConnection(ctx, connID, transport.Event{
		Type:    model.EventKicked,
		Payload: model.KickedPayload{Reason: KickReasonSuperseded},
	})
}

// Leave explicitly exits a farm session. Leaving a farm the player is
// not present in, or from a connection that no longer owns the session,
// resolves silently.
func (c *Coordinator) Leave(ctx context.Context, farmIDStr string, playerID model.PlayerID, connID model.ConnectionID) error {
	farmID, err := model.ParseFarmID(farmIDStr)
	if err != nil {
		return err
	}

	record, err := c.storage.GetPresence(ctx, farmID, playerID)
	if errors.Is(err, model.ErrPresenceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if record.ConnectionID != connID {
		// A stale device's leave must not tear down the newer session.
		return nil
	}

	return c.removePresence(ctx, record)
}

// HandleDisconnect cleans up after a transport-level drop. A disconnect
// for a connection with no matching presence record is the expected
// steady-state for flaky transports and resolves silently.
func (c *Coordinator) HandleDisconnect(ctx context.Context, connID model.ConnectionID) error {
	c.registry.Unregister(connID)

	record, err := c.storage.GetPresenceByConnection(ctx, connID)
	if errors.Is(err, model.ErrPresenceNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return c.removePresence(ctx, record)
}

// removePresence is the single removal path shared by Leave and
// HandleDisconnect, keeping group membership and presence records
// consistent with actual connectivity.
func (c *Coordinator) removePresence(ctx context.Context, record *model.PresenceRecord) error {
	unlock := c.lockFarm(record.FarmID)
	defer unlock()

	if err := c.storage.DeletePresence(ctx, record.FarmID, record.PlayerID); err != nil {
		return err
	}

	group := transport.FarmGroup(record.FarmID)
	c.dispatcher.RemoveFromGroup(group, record.ConnectionID)
	c.registry.Unregister(record.ConnectionID)

	c.logger.Info("player left farm",
		slog.Int64("player_id", int64(record.PlayerID)),
		slog.Int64("farm_id", int64(record.FarmID)))

	return c.dispatcher.SendToGroupExcept(ctx, group, record.ConnectionID, transport.Event{
		Type:    model.EventPlayerLeft,
		Payload: model.PlayerLeftPayload{PlayerID: record.PlayerID},
	})
}
