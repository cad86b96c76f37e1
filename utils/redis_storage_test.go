package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachahurley/betterfly-app/config"
	"github.com/sachahurley/betterfly-app/onboarding"
)

func TestNewRedisClientUnreachable(t *testing.T) {
	assert.Nil(t, NewRedisClient(config.AppConfig{RedisHost: "127.0.0.1", RedisPort: 1}))
	assert.Nil(t, NewRedisClient(config.AppConfig{}))
}

func TestRedisStorageMemoryFallback(t *testing.T) {
	s := NewRedisStorage(nil, time.Hour)
	assert.False(t, s.Durable())

	_, ok, err := s.Read("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write("k", "v"))
	v, ok, err := s.Read("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Remove("k"))
	_, ok, _ = s.Read("k")
	assert.False(t, ok)
}

func TestRedisStorageBacksProgressStore(t *testing.T) {
	s := NewRedisStorage(nil, time.Hour)
	for _, id := range []string{"a", "b"} {
		store, err := onboarding.NewStore(id, s, onboarding.WithKeyPrefix("test"))
		require.NoError(t, err)
		require.NoError(t, store.SetAnswer(onboarding.QWearable, "yes"))
	}
	n, err := s.CountSessions("test")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reloaded, err := onboarding.NewStore("a", s, onboarding.WithKeyPrefix("test"))
	require.NoError(t, err)
	v, ok := reloaded.Answer(onboarding.QWearable)
	assert.True(t, ok)
	assert.Equal(t, "yes", v)

	reloaded.ResetAll()
	n, _ = s.CountSessions("test")
	assert.Equal(t, 1, n)
}
