package local

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocationList stores revoked session ids in Redis with a TTL equal to
// the credential's remaining lifetime, so the set cleans itself up.
type RedisRevocationList struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationList wraps an existing client. The client lifecycle is
// owned by the caller.
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client, prefix: "revoked:"}
}

func (l *RedisRevocationList) key(sessionID string) string {
	return l.prefix + sessionID
}

func (l *RedisRevocationList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" || ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("local: revoke %s: %w", sessionID, err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	_, err := l.client.Get(ctx, l.key(sessionID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("local: revocation lookup %s: %w", sessionID, err)
	}
	return true, nil
}
