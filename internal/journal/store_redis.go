package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for journey transition lists
	journalKeyPrefix = "onboard:journal:"
)

// RedisStore keeps transition entries in a Redis list per journey, expiring
// with the journey itself. Intended for deployments where ops tooling tails
// journeys across several demo instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisStoreOption func(*RedisStore)

// WithTTL overrides how long a journey's entries outlive their last write.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	store := &RedisStore{
		client: client,
		ttl:    30 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *RedisStore) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := journalKeyPrefix + entry.JourneyID
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Drop(ctx context.Context, journeyID string) error {
	return s.client.Del(ctx, journalKeyPrefix+journeyID).Err()
}

func (s *RedisStore) ListByJourney(ctx context.Context, journeyID string) ([]Entry, error) {
	raw, err := s.client.LRange(ctx, journalKeyPrefix+journeyID, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
