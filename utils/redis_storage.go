package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sachahurley/betterfly-app/onboarding"
)

const redisOpTimeout = 2 * time.Second

// RedisStorage persists onboarding state in Redis. Every key expires after
// ttl, so abandoned sessions clean themselves up. Without a client it keeps
// values in process memory (single instance only).
type RedisStorage struct {
	rc       *redis.Client
	ttl      time.Duration
	fallback *onboarding.MemoryStorage
}

var _ onboarding.Storage = (*RedisStorage)(nil)

// NewRedisStorage returns storage backed by rc, or by memory when rc is nil.
func NewRedisStorage(rc *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{rc: rc, ttl: ttl, fallback: onboarding.NewMemoryStorage()}
}

// Durable reports whether values survive a process restart.
func (s *RedisStorage) Durable() bool { return s.rc != nil }

func (s *RedisStorage) Read(key string) (string, bool, error) {
	if s.rc == nil {
		return s.fallback.Read(key)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	v, err := s.rc.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStorage) Write(key, value string) error {
	if s.rc == nil {
		return s.fallback.Write(key, value)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.rc.Set(ctx, key, value, s.ttl).Err()
}

func (s *RedisStorage) Remove(key string) error {
	if s.rc == nil {
		return s.fallback.Remove(key)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.rc.Del(ctx, key).Err()
}

// CountSessions counts persisted session records under keyPrefix.
func (s *RedisStorage) CountSessions(keyPrefix string) (int, error) {
	pattern := onboarding.SessionKeyPattern(keyPrefix)
	if s.rc == nil {
		return s.fallback.CountMatching(pattern), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var (
		cursor uint64
		n      int
	)
	for i := 0; i < 100; i++ { // limit rounds to avoid long loops
		keys, cur, err := s.rc.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return n, err
		}
		n += len(keys)
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return n, nil
}
