package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		client.Close()
	})
	return NewRedisStore(client, "test:"), mock
}

func TestRedisStoreGetBackendError(t *testing.T) {
	store, mock := setupMockStore(t)
	token := NewToken()
	mock.ExpectGet("test:" + token).SetErr(errors.New("connection reset"))

	_, err := store.Get(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreGetExpiredValue(t *testing.T) {
	store, mock := setupMockStore(t)
	token := NewToken()
	data, err := json.Marshal(Session{UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	mock.ExpectGet("test:" + token).SetVal(string(data))

	_, err = store.Get(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreGetStoredValue(t *testing.T) {
	store, mock := setupMockStore(t)
	token := NewToken()
	data, err := json.Marshal(Session{UserID: 7, ExpiresAt: time.Now().Add(time.Hour), IPAddress: "10.1.1.1"})
	require.NoError(t, err)
	mock.ExpectGet("test:" + token).SetVal(string(data))

	sess, err := store.Get(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, "10.1.1.1", sess.IPAddress)
}

func TestRedisStoreDeleteBackendError(t *testing.T) {
	store, mock := setupMockStore(t)
	token := NewToken()
	mock.ExpectDel("test:" + token).SetErr(errors.New("read only replica"))

	assert.Error(t, store.Delete(context.Background(), token))
}

func TestRedisStoreJunkTokenSkipsBackend(t *testing.T) {
	store, _ := setupMockStore(t)

	_, err := store.Get(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(context.Background(), "not-a-token"))
}
