// internal/session/redis_test.go
package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/models"
)

func newTestRedisStore(t *testing.T, timeout time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, timeout, logger.NewNoOpLogger()), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, time.Hour)

	sess, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	t.Run("existing session keeps its seed", func(t *testing.T) {
		again, err := store.GetOrCreate(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.Seed, again.Seed)
	})

	t.Run("scenario claim via SETNX", func(t *testing.T) {
		first := &models.Scenario{Seed: 1, SupplierIDs: []string{"S001"}}
		got, err := store.ClaimScenario(ctx, sess.ID, first)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Seed)

		second := &models.Scenario{Seed: 2}
		got, err = store.ClaimScenario(ctx, sess.ID, second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Seed, "second claim loses")

		cached, found, err := store.Scenario(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []string{"S001"}, cached.SupplierIDs)
	})

	t.Run("reset rerolls and clears", func(t *testing.T) {
		reset, err := store.Reset(ctx, sess.ID)
		require.NoError(t, err)
		assert.NotEqual(t, sess.Seed, reset.Seed)

		_, found, err := store.Scenario(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete removes both keys", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sess.ID))
		_, found, err := store.Scenario(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisStoreTimeout(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)

	sess, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	_, err = store.ClaimScenario(ctx, sess.ID, &models.Scenario{Seed: sess.Seed})
	require.NoError(t, err)

	// Let the TTL lapse; Redis drops the keys and the next access recreates.
	mr.FastForward(2 * time.Hour)

	_, found, err := store.Scenario(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, found)

	fresh, err := store.GetOrCreate(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Seed, fresh.Seed, "expired session is a new session")
}

func TestRedisStoreCorruptSessionRecreated(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)

	require.NoError(t, mr.Set(sessionKey("bad"), "not-json"))

	sess, err := store.GetOrCreate(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, "bad", sess.ID)
	assert.NotZero(t, sess.Seed)
}

func TestRedisStoreBackendErrors(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, time.Hour, logger.NewNoOpLogger())

	mock.ExpectGet(sessionKey("s1")).SetErr(errors.New("connection refused"))

	_, err := store.GetOrCreate(ctx, "s1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionStoreUnavailable, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
