package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps revoked JWT IDs until their natural expiry so logout takes
// effect before the access token runs out.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func revocationKey(jti string) string { return "revoked_token:" + jti }

func (s *Store) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to deny.
		return nil
	}
	return s.rdb.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := s.rdb.Get(ctx, revocationKey(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
