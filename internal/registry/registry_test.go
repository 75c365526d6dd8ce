package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = New()
}

func (s *RegistrySuite) TestRegisterNewPlayer() {
	evicted, ok := s.registry.Register(1, "conn-1")
	s.False(ok)
	s.Empty(evicted)

	connID, found := s.registry.Lookup(1)
	s.True(found)
	s.Equal(model.ConnectionID("conn-1"), connID)
}

func (s *RegistrySuite) TestRegisterReturnsEvictedConnection() {
	s.registry.Register(1, "conn-1")

	evicted, ok := s.registry.Register(1, "conn-2")
	s.True(ok)
	s.Equal(model.ConnectionID("conn-1"), evicted)

	connID, _ := s.registry.Lookup(1)
	s.Equal(model.ConnectionID("conn-2"), connID)
}

func (s *RegistrySuite) TestRegisterSameConnectionIsIdempotent() {
	s.registry.Register(1, "conn-1")

	evicted, ok := s.registry.Register(1, "conn-1")
	s.False(ok)
	s.Empty(evicted)
	s.Equal(1, s.registry.Len())
}

func (s *RegistrySuite) TestUnregisterReturnsPlayer() {
	s.registry.Register(1, "conn-1")

	playerID, ok := s.registry.Unregister("conn-1")
	s.True(ok)
	s.Equal(model.PlayerID(1), playerID)

	_, found := s.registry.Lookup(1)
	s.False(found)
}

func (s *RegistrySuite) TestUnregisterUnknownConnectionIsNoOp() {
	playerID, ok := s.registry.Unregister("never-registered")
	s.False(ok)
	s.Zero(playerID)
}

func (s *RegistrySuite) TestUnregisterStaleConnectionKeepsNewerRegistration() {
	s.registry.Register(1, "conn-1")
	s.registry.Register(1, "conn-2")

	// The evicted connection's late disconnect must not remove the
	// newer session's mapping.
	playerID, ok := s.registry.Unregister("conn-1")
	s.False(ok)
	s.Zero(playerID)

	connID, found := s.registry.Lookup(1)
	s.True(found)
	s.Equal(model.ConnectionID("conn-2"), connID)
}

func (s *RegistrySuite) TestEvictedConnectionAlreadyUnregistered() {
	s.registry.Register(1, "conn-1")
	s.registry.Register(1, "conn-2")

	// Registering conn-2 removed conn-1's reverse mapping.
	_, ok := s.registry.Unregister("conn-1")
	s.False(ok)

	playerID, ok := s.registry.Unregister("conn-2")
	s.True(ok)
	s.Equal(model.PlayerID(1), playerID)
	s.Equal(0, s.registry.Len())
}

func (s *RegistrySuite) TestConcurrentRegisterUnregister() {
	const players = 50
	const rounds = 20

	var wg sync.WaitGroup
	for p := 0; p < players; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			playerID := model.PlayerID(p)
			for r := 0; r < rounds; r++ {
				connID := model.ConnectionID(fmt.Sprintf("conn-%d-%d", p, r))
				s.registry.Register(playerID, connID)
			}
		}(p)
	}
	wg.Wait()

	// Every player ends with exactly its last-registered connection.
	s.Equal(players, s.registry.Len())
	for p := 0; p < players; p++ {
		connID, found := s.registry.Lookup(model.PlayerID(p))
		s.True(found)
		s.Equal(model.ConnectionID(fmt.Sprintf("conn-%d-%d", p, rounds-1)), connID)
	}
}
