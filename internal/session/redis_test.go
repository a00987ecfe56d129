package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ""), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 42, time.Hour, Client{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.True(t, mr.Exists(DefaultRedisPrefix+sess.Token))
	assert.Equal(t, time.Hour, mr.TTL(DefaultRedisPrefix+sess.Token))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.Equal(t, "test", got.UserAgent)

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreKeyExpires(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, 7, time.Minute, Client{})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := setupRedisStore(t)
	token := NewToken()
	require.NoError(t, mr.Set(DefaultRedisPrefix+token, "{not json"))

	_, err := store.Get(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRejectsJunkTokens(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "junk")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "junk"))
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client, "test:")

	sess, err := store.Create(context.Background(), 1, time.Hour, Client{})
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:"+sess.Token))
}

func TestRedisStoreRejectsNonPositiveTTL(t *testing.T) {
	store, _ := setupRedisStore(t)
	_, err := store.Create(context.Background(), 1, 0, Client{})
	assert.Error(t, err)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client, "")
	mr.Close()

	_, err := store.Create(context.Background(), 1, time.Hour, Client{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
