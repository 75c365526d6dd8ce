package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/mocks"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/registry"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage/memory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/testutil"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	dispatcher  *mocks.FakeDispatcher
	registry    *registry.Registry
	clock       *mocks.MockClock
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.dispatcher = mocks.NewFakeDispatcher()
	s.registry = registry.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.coordinator = NewCoordinator(s.storage, s.dispatcher, s.registry, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 1, OwnerID: 100, Name: "Home"})
	_ = s.storage.SaveFarm(s.ctx, &model.Farm{ID: 2, OwnerID: 101, Name: "Neighbor"})
}

// initialPlayersSentTo returns the InitialPlayers payloads delivered to a connection
func (s *CoordinatorSuite) initialPlayersSentTo(connID model.ConnectionID) []model.InitialPlayersPayload {
	var payloads []model.InitialPlayersPayload
	for _, event := range s.dispatcher.EventsDeliveredTo(connID) {
		if event.Type == model.EventInitialPlayers {
			payloads = append(payloads, event.Payload.(model.InitialPlayersPayload))
		}
	}
	return payloads
}

// Join tests

func (s *CoordinatorSuite) TestJoinFirstPlayerGetsEmptyInitialPlayers() {
	err := s.coordinator.Join(s.ctx, "1", 10, "conn-a")
	s.Require().NoError(err)

	payloads := s.initialPlayersSentTo("conn-a")
	s.Require().Len(payloads, 1)
	s.Empty(payloads[0].PlayerIDs)
}

func (s *CoordinatorSuite) TestJoinCreatesPresenceRecord() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))

	record, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-a"), record.ConnectionID)
	s.Equal(s.clock.CurrentTime, record.JoinedAt)
	s.True(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-a"))
}

func (s *CoordinatorSuite) TestJoinInitialPlayersNeverIncludesSelf() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))

	payloads := s.initialPlayersSentTo("conn-b")
	s.Require().Len(payloads, 1)
	s.Equal([]model.PlayerID{10}, payloads[0].PlayerIDs)
}

func (s *CoordinatorSuite) TestJoinBroadcastsPlayerJoinedToOthersOnly() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))

	joined := s.dispatcher.EventsOfType(model.EventPlayerJoined)
	s.Require().Len(joined, 2)

	// First join broadcast to an empty group; second delivered to conn-a only.
	s.Empty(joined[0].Recipients)
	s.Equal([]model.ConnectionID{"conn-a"}, joined[1].Recipients)
	s.Equal(model.PlayerID(11), joined[1].Event.Payload.(model.PlayerJoinedPayload).PlayerID)
}

func (s *CoordinatorSuite) TestJoinMalformedFarmIDFailsCallerOnly() {
	err := s.coordinator.Join(s.ctx, "not-a-farm", 10, "conn-a")
	s.ErrorIs(err, model.ErrInvalidFarmID)

	events := s.dispatcher.EventsDeliveredTo("conn-a")
	s.Require().Len(events, 1)
	s.Equal(model.EventJoinFarmFailed, events[0].Type)
	s.Equal("Invalid farm ID", events[0].Payload.(model.JoinFarmFailedPayload).Reason)

	_, err = s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
	s.Equal(0, s.registry.Len())
}

func (s *CoordinatorSuite) TestJoinUnknownFarmFailsCallerOnly() {
	err := s.coordinator.Join(s.ctx, "999", 10, "conn-a")
	s.ErrorIs(err, model.ErrFarmNotFound)

	events := s.dispatcher.EventsDeliveredTo("conn-a")
	s.Require().Len(events, 1)
	s.Equal(model.EventJoinFarmFailed, events[0].Type)
}

// Supersession tests

func (s *CoordinatorSuite) TestRejoinFromNewConnectionKicksOldExactlyOnce() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-new"))

	kicked := s.dispatcher.EventsOfType(model.EventKicked)
	s.Require().Len(kicked, 1)
	s.Equal([]model.ConnectionID{"conn-old"}, kicked[0].Recipients)
	s.Equal(KickReasonSuperseded, kicked[0].Event.Payload.(model.KickedPayload).Reason)

	record, err := s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-new"), record.ConnectionID)

	s.False(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-old"))
	s.True(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-new"))
}

func (s *CoordinatorSuite) TestRejoinInitialPlayersExcludesSupersededSelf() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-new"))

	payloads := s.initialPlayersSentTo("conn-new")
	s.Require().Len(payloads, 1)
	s.NotContains(payloads[0].PlayerIDs, model.PlayerID(10))
}

func (s *CoordinatorSuite) TestCrossFarmRejoinEvictsOldFarmSession() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "2", 10, "conn-new"))

	// The old farm's record is gone; exactly one record exists, in farm 2.
	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)

	record, err := s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.FarmID(2), record.FarmID)

	s.False(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-old"))

	kicked := s.dispatcher.EventsOfType(model.EventKicked)
	s.Require().Len(kicked, 1)
	s.Equal([]model.ConnectionID{"conn-old"}, kicked[0].Recipients)
}

func (s *CoordinatorSuite) TestSameConnectionCrossFarmJoinLeavesOldGroup() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "2", 10, "conn-a"))

	// Group membership follows the record: after moving to farm 2 the
	// connection must not keep receiving farm 1's broadcasts.
	s.False(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-a"))
	s.True(s.dispatcher.InGroup(transport.FarmGroup(2), "conn-a"))

	record, err := s.storage.GetPresenceByPlayer(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.FarmID(2), record.FarmID)

	// Moving farms on one connection is not a supersession.
	s.Empty(s.dispatcher.EventsOfType(model.EventKicked))
}

func (s *CoordinatorSuite) TestSameConnectionCrossFarmJoinNotifiesOldFarm() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))
	s.dispatcher.Reset()

	s.Require().NoError(s.coordinator.Join(s.ctx, "2", 10, "conn-a"))

	left := s.dispatcher.EventsOfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal([]model.ConnectionID{"conn-b"}, left[0].Recipients)
	s.Equal(model.PlayerID(10), left[0].Event.Payload.(model.PlayerLeftPayload).PlayerID)
}

func (s *CoordinatorSuite) TestCrossFarmSupersessionNotifiesOldFarm() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))
	s.dispatcher.Reset()

	// Same player, new device, different farm: the old farm's remaining
	// occupant sees the departure, the old device sees only the kick.
	s.Require().NoError(s.coordinator.Join(s.ctx, "2", 10, "conn-new"))

	left := s.dispatcher.EventsOfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal([]model.ConnectionID{"conn-b"}, left[0].Recipients)
	s.Equal(model.PlayerID(10), left[0].Event.Payload.(model.PlayerLeftPayload).PlayerID)

	kicked := s.dispatcher.EventsOfType(model.EventKicked)
	s.Require().Len(kicked, 1)
	s.Equal([]model.ConnectionID{"conn-old"}, kicked[0].Recipients)
}

func (s *CoordinatorSuite) TestSameFarmSupersessionEmitsNoPlayerLeft() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))
	s.dispatcher.Reset()

	// The player never stops being present in the farm, so the other
	// occupant must not see a departure.
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-new"))

	s.Empty(s.dispatcher.EventsOfType(model.EventPlayerLeft))
}

func (s *CoordinatorSuite) TestSingleSessionInvariantAcrossRepeatedJoins() {
	conns := []model.ConnectionID{"c1", "c2", "c3", "c4"}
	farms := []string{"1", "2", "1", "2"}
	for i, conn := range conns {
		s.Require().NoError(s.coordinator.Join(s.ctx, farms[i], 10, conn))

		// At most one record at every observation point.
		count := 0
		for _, farmID := range []model.FarmID{1, 2} {
			if _, err := s.storage.GetPresence(s.ctx, farmID, 10); err == nil {
				count++
			}
		}
		s.Equal(1, count)
	}

	// Three supersessions, three kicks.
	s.Len(s.dispatcher.EventsOfType(model.EventKicked), 3)
}

// Leave tests

func (s *CoordinatorSuite) TestLeaveRemovesPresenceAndBroadcasts() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))

	s.Require().NoError(s.coordinator.Leave(s.ctx, "1", 10, "conn-a"))

	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)
	s.False(s.dispatcher.InGroup(transport.FarmGroup(1), "conn-a"))

	left := s.dispatcher.EventsOfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal([]model.ConnectionID{"conn-b"}, left[0].Recipients)
	s.Equal(model.PlayerID(10), left[0].Event.Payload.(model.PlayerLeftPayload).PlayerID)
}

func (s *CoordinatorSuite) TestLeaveWhenNeverJoinedIsSilent() {
	err := s.coordinator.Leave(s.ctx, "1", 10, "conn-a")
	s.NoError(err)
	s.Empty(s.dispatcher.Events())
}

func (s *CoordinatorSuite) TestLeaveFromStaleConnectionIsSilent() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-new"))
	s.dispatcher.Reset()

	// The kicked device sends its Leave late.
	s.Require().NoError(s.coordinator.Leave(s.ctx, "1", 10, "conn-old"))

	record, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-new"), record.ConnectionID)
	s.Empty(s.dispatcher.Events())
}

// Disconnect tests

func (s *CoordinatorSuite) TestDisconnectRemovesPresenceAndBroadcasts() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))

	s.Require().NoError(s.coordinator.HandleDisconnect(s.ctx, "conn-a"))

	_, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.ErrorIs(err, model.ErrPresenceNotFound)

	left := s.dispatcher.EventsOfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal([]model.ConnectionID{"conn-b"}, left[0].Recipients)
}

func (s *CoordinatorSuite) TestDisconnectUnknownConnectionIsSilent() {
	err := s.coordinator.HandleDisconnect(s.ctx, "conn-never-joined")
	s.NoError(err)
	s.Empty(s.dispatcher.Events())
}

func (s *CoordinatorSuite) TestDisconnectAfterSupersessionIsSilent() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-old"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-new"))
	s.dispatcher.Reset()

	// The kicked connection's socket finally drops.
	s.Require().NoError(s.coordinator.HandleDisconnect(s.ctx, "conn-old"))

	record, err := s.storage.GetPresence(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-new"), record.ConnectionID)
	s.Empty(s.dispatcher.Events())
}

func (s *CoordinatorSuite) TestFarmLockMapDrainsWhenIdle() {
	s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.Join(s.ctx, "2", 11, "conn-b"))
	s.Require().NoError(s.coordinator.Leave(s.ctx, "1", 10, "conn-a"))
	s.Require().NoError(s.coordinator.HandleDisconnect(s.ctx, "conn-b"))

	// Lock entries exist only while a membership change is in flight;
	// the map must not grow with every farm ever joined.
	s.coordinator.farmMu.Lock()
	defer s.coordinator.farmMu.Unlock()
	s.Empty(s.coordinator.farmLocks)
}

// Concurrency tests

func (s *CoordinatorSuite) TestConcurrentJoinsDistinctPlayersSeeEachOtherExactlyOnce() {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Require().NoError(s.coordinator.Join(s.ctx, "1", 10, "conn-a"))
	}()
	go func() {
		defer wg.Done()
		s.Require().NoError(s.coordinator.Join(s.ctx, "1", 11, "conn-b"))
	}()
	wg.Wait()

	// Both are present.
	records, err := s.storage.ListPresence(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(records, 2)

	// Each learned of the other exactly once: via InitialPlayers or PlayerJoined.
	s.Equal(1, s.timesSeen("conn-a", 11))
	s.Equal(1, s.timesSeen("conn-b", 10))
}

func (s *CoordinatorSuite) TestConcurrentJoinsSamePlayerLeaveOneSession() {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.coordinator.Join(s.ctx, "1", 10, "conn-a")
	}()
	go func() {
		defer wg.Done()
		_ = s.coordinator.Join(s.ctx, "2", 10, "conn-b")
	}()
	wg.Wait()

	// Exactly one presence record survives, owned by the registry winner.
	count := 0
	var survivor *model.PresenceRecord
	for _, farmID := range []model.FarmID{1, 2} {
		if record, err := s.storage.GetPresence(s.ctx, farmID, 10); err == nil {
			count++
			survivor = record
		}
	}
	s.Require().Equal(1, count)

	winner, ok := s.registry.Lookup(10)
	s.Require().True(ok)
	s.Equal(winner, survivor.ConnectionID)
}

// timesSeen counts how often a connection learned about a player id,
// whether through its InitialPlayers snapshot or a PlayerJoined event
func (s *CoordinatorSuite) timesSeen(connID model.ConnectionID, playerID model.PlayerID) int {
	count := 0
	for _, event := range s.dispatcher.EventsDeliveredTo(connID) {
		switch payload := event.Payload.(type) {
		case model.InitialPlayersPayload:
			for _, id := range payload.PlayerIDs {
				if id == playerID {
					count++
				}
			}
		case model.PlayerJoinedPayload:
			if payload.PlayerID == playerID {
				count++
			}
		}
	}
	return count
}
