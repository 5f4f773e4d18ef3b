package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.clock = func() time.Time { return now }

	unlock, ok, err := l.TryLock(ctx, "book", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "book", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held key must not be acquired twice")

	_, ok, _ = l.TryLock(ctx, "other", time.Minute)
	assert.True(t, ok)

	unlock()
	unlock2, ok, _ := l.TryLock(ctx, "book", time.Minute)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = l.TryLock(ctx, "book", time.Minute)
	assert.True(t, ok, "expired lock can be taken over")

	// stale unlock from the previous holder leaves the new lock alone
	unlock2()
	_, ok, _ = l.TryLock(ctx, "book", time.Minute)
	assert.False(t, ok)
}

func TestLocalLocker_InvalidTTL(t *testing.T) {
	_, _, err := NewLocalLocker().TryLock(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	l := NewRedisLocker(rdb)

	unlock, ok, err := l.TryLock(ctx, "lock:book", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("lock:book"))

	_, ok, err = l.TryLock(ctx, "lock:book", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	unlock()
	assert.False(t, mr.Exists("lock:book"))

	_, ok, err = l.TryLock(ctx, "lock:book", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("lock:book"))
}

func TestRedisLocker_StaleUnlock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	l := NewRedisLocker(rdb)

	unlock, ok, err := l.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, err = l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	unlock()
	assert.True(t, mr.Exists("k"), "stale holder must not release the new lock")
}
