package journal

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"onboard/internal/domain"
)

type RedisStoreSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.store = NewRedisStore(client, WithTTL(time.Minute))
}

func (s *RedisStoreSuite) TearDownTest() {
	s.mr.Close()
}

func (s *RedisStoreSuite) TestAppendAndList() {
	ctx := context.Background()

	s.Run("entries come back in append order", func() {
		first := Entry{ID: "e1", JourneyID: "j1", FromStep: domain.StepEntry, ToStep: domain.StepOTPChallenge, Event: "phone_submitted", OccurredAt: time.Now().UTC().Truncate(time.Second)}
		second := Entry{ID: "e2", JourneyID: "j1", FromStep: domain.StepOTPChallenge, ToStep: domain.StepDetails, Event: "otp_succeeded", OccurredAt: time.Now().UTC().Truncate(time.Second)}

		s.Require().NoError(s.store.Append(ctx, first))
		s.Require().NoError(s.store.Append(ctx, second))

		entries, err := s.store.ListByJourney(ctx, "j1")
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal("e1", entries[0].ID)
		s.Equal("e2", entries[1].ID)
		s.Equal(domain.StepOTPChallenge, entries[0].ToStep)
	})

	s.Run("journeys are isolated", func() {
		s.Require().NoError(s.store.Append(ctx, Entry{ID: "e3", JourneyID: "j2", Event: "phone_submitted"}))
		entries, err := s.store.ListByJourney(ctx, "j2")
		s.Require().NoError(err)
		s.Len(entries, 1)
	})

	s.Run("unknown journey lists empty", func() {
		entries, err := s.store.ListByJourney(ctx, "nope")
		s.Require().NoError(err)
		s.Empty(entries)
	})
}

func (s *RedisStoreSuite) TestDrop() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, Entry{ID: "e1", JourneyID: "j1", Event: "phone_submitted"}))
	s.Require().NoError(s.store.Append(ctx, Entry{ID: "e2", JourneyID: "j2", Event: "phone_submitted"}))

	s.Require().NoError(s.store.Drop(ctx, "j1"))

	entries, err := s.store.ListByJourney(ctx, "j1")
	s.Require().NoError(err)
	s.Empty(entries)

	s.Run("other journeys are untouched", func() {
		entries, err := s.store.ListByJourney(ctx, "j2")
		s.Require().NoError(err)
		s.Len(entries, 1)
	})
}

func (s *RedisStoreSuite) TestEntriesExpireWithTheJourney() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, Entry{ID: "e1", JourneyID: "j1", Event: "phone_submitted"}))

	s.mr.FastForward(2 * time.Minute)

	entries, err := s.store.ListByJourney(ctx, "j1")
	s.Require().NoError(err)
	s.Empty(entries)
}
