package redislock_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/inventory-loan-service/pkg/redislock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLocker_TryLock(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	l := redislock.New(rdb)

	unlock, ok, err := l.TryLock(ctx, "scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "scan", time.Minute)
	require.NoError(t, err)
	require.False(t, ok, "second holder must not get the lock")

	require.NoError(t, unlock(ctx))

	unlock, ok, err = l.TryLock(ctx, "scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, unlock(ctx))
}

func TestLocker_Expires(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	l := redislock.New(rdb)

	staleUnlock, ok, err := l.TryLock(ctx, "scan", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = l.TryLock(ctx, "scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// a stale holder must not release the new holder's key
	require.NoError(t, staleUnlock(ctx))
	require.True(t, mr.Exists("scan"))
}
