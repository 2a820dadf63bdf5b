package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "financehub:revoked:"

// RedisSessionStore shares revocations between server instances. Keys expire
// together with the token, so no sweeping is needed.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSessionStore connects to addr and verifies the connection.
func NewRedisSessionStore(ctx context.Context, addr, password string) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	slog.Info("redis session store connected", "addr", addr)
	return &RedisSessionStore{client: client, now: time.Now}, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
