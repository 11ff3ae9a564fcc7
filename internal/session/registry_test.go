package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"onboard/internal/directory"
	"onboard/internal/journey"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	factory := func() (*journey.Orchestrator, error) {
		return journey.New(directory.NewFixtureDirectory())
	}

	var err error
	s.registry, err = New(factory, WithIdleTTL(time.Minute))
	s.Require().NoError(err)
}

func (s *RegistrySuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
}

func (s *RegistrySuite) TestCreateAndGet() {
	sess, err := s.registry.Create("Chrome on Mac OS X")
	s.Require().NoError(err)
	s.NotEmpty(sess.ID)
	s.NotNil(sess.Orchestrator)

	found, err := s.registry.Get(sess.ID)
	s.Require().NoError(err)
	s.Same(sess, found)

	s.Run("sessions own distinct orchestrators", func() {
		other, err := s.registry.Create("Firefox on Linux")
		s.Require().NoError(err)
		s.NotSame(sess.Orchestrator, other.Orchestrator)
		s.Equal(2, s.registry.Len())
	})

	s.Run("unknown session is not found", func() {
		_, err := s.registry.Get("nope")
		s.Error(err)
	})
}

func (s *RegistrySuite) TestRemove() {
	sess, err := s.registry.Create("test")
	s.Require().NoError(err)

	s.registry.Remove(sess.ID)
	_, err = s.registry.Get(sess.ID)
	s.Error(err)
	s.Equal(0, s.registry.Len())
}

func (s *RegistrySuite) TestSweep() {
	sess, err := s.registry.Create("test")
	s.Require().NoError(err)

	s.Run("fresh sessions survive a sweep", func() {
		s.Equal(0, s.registry.Sweep(time.Now()))
		s.Equal(1, s.registry.Len())
	})

	s.Run("idle sessions are evicted", func() {
		evicted := s.registry.Sweep(time.Now().Add(2 * time.Minute))
		s.Equal(1, evicted)
		_, err := s.registry.Get(sess.ID)
		s.Error(err)
	})
}
