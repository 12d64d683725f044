package locker

import (
	"context"
	"errors"
	"healnexus-service/internal/app/services/shared/memory"
	redisRepository "healnexus-service/internal/app/services/shared/redis"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLockService_Redis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	locker := NewLockService(redisRepository.NewRedisRepository(client), zap.NewNop())
	ctx := context.Background()

	acquired, owner, err := locker.TryLock(ctx, "booking:doctor:d1:lock", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.NotEmpty(t, owner)

	acquired, _, err = locker.TryLock(ctx, "booking:doctor:d1:lock", time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "second client must not enter while the lock is held")

	acquired, _, err = locker.TryLock(ctx, "booking:doctor:d2:lock", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "different doctors lock independently")

	assert.Error(t, locker.Unlock(ctx, "booking:doctor:d1:lock", "someone-else"))
	require.NoError(t, locker.Refresh(ctx, "booking:doctor:d1:lock", owner, time.Minute))
	server.FastForward(5 * time.Second)
	require.NoError(t, locker.Unlock(ctx, "booking:doctor:d1:lock", owner))

	acquired, _, err = locker.TryLock(ctx, "booking:doctor:d1:lock", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestLockService_ExpiredLockCannotBeReleased(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	locker := NewLockService(redisRepository.NewRedisRepository(client), zap.NewNop())
	ctx := context.Background()

	_, owner, err := locker.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	server.FastForward(2 * time.Second)

	_, other, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)

	assert.Error(t, locker.Unlock(ctx, "k", owner))
	assert.Error(t, locker.Refresh(ctx, "k", owner, time.Minute))
	assert.NoError(t, locker.Unlock(ctx, "k", other))
}

func TestLockService_Memory(t *testing.T) {
	locker := NewLockService(memory.NewKeyValueStore(), zap.NewNop())
	ctx := context.Background()

	acquired, owner, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, locker.Unlock(ctx, "k", owner))
	err = locker.Unlock(ctx, "k", owner)
	assert.True(t, err != nil && !errors.Is(err, context.Canceled))
}
