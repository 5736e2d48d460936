package session

import (
	"context"
	"testing"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)
	store := NewRedisStore(rdb, "test:")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.IsLoggedIn())

	want := domain.Session{Username: "crio.do", Token: "jwt-token"}
	require.NoError(t, store.Save(ctx, want))

	username, err := mr.Get("test:username")
	require.NoError(t, err)
	assert.Equal(t, "crio.do", username)
	assert.Zero(t, mr.TTL("test:token"), "sessions do not expire")

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("test:username"))
	assert.False(t, mr.Exists("test:token"))
}

func TestRedisStoreDefaultPrefix(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)

	require.NoError(t, NewRedisStore(rdb, "").Save(ctx, domain.Session{Username: "u", Token: "t"}))
	assert.True(t, mr.Exists("qkart:session:token"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, rdb := newRedisClient(t)
	mr.Close()

	_, err := NewRedisStore(rdb, "test:").Load(context.Background())
	assert.ErrorContains(t, err, "failed to load session")
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Session: config.SessionConfig{Driver: "redis"},
		Redis:   config.RedisConfig{Host: mr.Host(), Port: mr.Server().Addr().Port, KeyPrefix: "qkart:"},
	}
	store, rdb, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &redisStore{}, store)

	cfg.Session = config.SessionConfig{Driver: "file", File: t.TempDir() + "/session.yaml"}
	files, fileRDB, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, fileRDB)
	assert.IsType(t, &fileStore{}, files)

	cfg.Session.Driver = "sqlite"
	_, _, err = New(ctx, cfg)
	assert.ErrorContains(t, err, "unknown session driver")
}
