package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colombia-api/colombia-cli/internal/cache"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := cache.NewRedisStore("redis://"+mr.Addr()+"/0", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SetAndGet(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	s.Set(ctx, sampleKey, []byte(`{"id":5}`))

	got, ok := s.Get(ctx, sampleKey)
	require.True(t, ok)
	assert.Equal(t, `{"id":5}`, string(got))
	assert.True(t, mr.Exists("colombia-cli:"+sampleKey))
	assert.Equal(t, time.Minute, mr.TTL("colombia-cli:"+sampleKey))
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	s.Set(ctx, sampleKey, []byte(`[]`))
	mr.FastForward(2 * time.Minute)

	_, ok := s.Get(ctx, sampleKey)
	assert.False(t, ok)
}

func TestRedisStore_Clear(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "GET /City/1", []byte(`{}`))
	s.Set(ctx, "GET /City/2", []byte(`{}`))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, s.Clear(ctx))

	_, ok := s.Get(ctx, "GET /City/1")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"), "clear must only touch owned keys")
}

func TestRedisStore_ServerDownIsMiss(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Set(ctx, sampleKey, []byte(`{}`))
	_, ok := s.Get(ctx, sampleKey)
	assert.False(t, ok)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := cache.NewRedisStore("http://not-redis", time.Minute)
	assert.ErrorContains(t, err, "invalid redis URL")
}

func TestNew_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := cache.New(cache.Options{Backend: "redis", RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	assert.IsType(t, &cache.RedisStore{}, s)
}
