package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RevocationList remembers session tokens that ended before their natural
// expiry. Entries live until the token would have expired anyway.
type RevocationList struct {
	rc *redis.Client

	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationList keeps entries in Redis, or in memory when rc is nil.
func NewRevocationList(rc *redis.Client) *RevocationList {
	return &RevocationList{rc: rc, revoked: map[string]time.Time{}, now: time.Now}
}

func revocationKey(token string) string { return "session:revoked:" + token }

// Revoke stores token until expiresAt.
func (l *RevocationList) Revoke(token string, expiresAt time.Time) {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return
	}
	if l.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		if err := l.rc.Set(ctx, revocationKey(token), "1", ttl).Err(); err != nil {
			Logger.Warn("revoke session token failed", zap.Error(err))
		}
		return
	}
	l.mu.Lock()
	l.revoked[token] = expiresAt
	l.mu.Unlock()
}

// Revoked reports whether token was revoked. Redis errors fail open.
func (l *RevocationList) Revoked(token string) bool {
	if l.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		n, err := l.rc.Exists(ctx, revocationKey(token)).Result()
		if err != nil {
			Logger.Warn("revocation lookup failed", zap.Error(err))
			return false
		}
		return n > 0
	}
	l.mu.RLock()
	exp, ok := l.revoked[token]
	l.mu.RUnlock()
	if !ok {
		return false
	}
	if l.now().After(exp) {
		l.mu.Lock()
		delete(l.revoked, token)
		l.mu.Unlock()
		return false
	}
	return true
}
