package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store. Documents are stored as JSON under
// "<prefix><collection>/<id>" with no expiry; profile records live as long as
// the account does.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. The client lifecycle is owned by
// the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "doc:"}
}

func (s *RedisStore) key(collection, id string) string {
	return s.prefix + collection + "/" + id
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	val, err := s.client.Get(ctx, s.key(collection, id)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("directory: get %s/%s: %w", collection, id, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, false, fmt.Errorf("directory: decode %s/%s: %w", collection, id, err)
	}
	return rec, true, nil
}

func (s *RedisStore) Set(ctx context.Context, collection, id string, fields Record) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("directory: encode %s/%s: %w", collection, id, err)
	}
	if err := s.client.Set(ctx, s.key(collection, id), raw, 0).Err(); err != nil {
		return fmt.Errorf("directory: set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, collection, id string, fields Record) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("directory: encode %s/%s: %w", collection, id, err)
	}

	ok, err := s.client.SetNX(ctx, s.key(collection, id), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("directory: create %s/%s: %w", collection, id, err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}
