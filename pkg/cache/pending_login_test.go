package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingLogins(t *testing.T) (*PendingLogins, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPendingLogins(NewCacheWithClient(client)), mr
}

func TestPendingLogins_SaveAndFind(t *testing.T) {
	store, mr := newTestPendingLogins(t)
	ctx := context.Background()
	employeeID := uuid.New()

	require.NoError(t, store.Save(ctx, "tok-1", employeeID, 10*time.Minute))

	got, ok, err := store.Find(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, employeeID, got)
	assert.Equal(t, 10*time.Minute, mr.TTL("pending_login:handle:tok-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("pending_login:employee:"+employeeID.String()))
}

func TestPendingLogins_NewHandleReplacesOld(t *testing.T) {
	store, _ := newTestPendingLogins(t)
	ctx := context.Background()
	employeeID, other := uuid.New(), uuid.New()

	require.NoError(t, store.Save(ctx, "first", employeeID, 10*time.Minute))
	require.NoError(t, store.Save(ctx, "someone-else", other, 10*time.Minute))
	require.NoError(t, store.Save(ctx, "second", employeeID, 10*time.Minute))

	_, ok, err := store.Find(ctx, "first")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := store.Find(ctx, "second")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, employeeID, got)

	got, ok, err = store.Find(ctx, "someone-else")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, other, got)
}

func TestPendingLogins_SavingSameHandleKeepsIt(t *testing.T) {
	store, _ := newTestPendingLogins(t)
	ctx := context.Background()
	employeeID := uuid.New()

	require.NoError(t, store.Save(ctx, "tok", employeeID, time.Minute))
	require.NoError(t, store.Save(ctx, "tok", employeeID, time.Minute))

	_, ok, err := store.Find(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPendingLogins_ConcurrentSavesLeaveOneHandle(t *testing.T) {
	store, _ := newTestPendingLogins(t)
	ctx := context.Background()
	employeeID := uuid.New()

	tokens := make([]string, 20)
	for i := range tokens {
		tokens[i] = uuid.NewString()
	}

	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, token, employeeID, time.Minute))
		}(token)
	}
	wg.Wait()

	live := 0
	for _, token := range tokens {
		_, ok, err := store.Find(ctx, token)
		require.NoError(t, err)
		if ok {
			live++
		}
	}
	assert.Equal(t, 1, live)
}

func TestPendingLogins_Find(t *testing.T) {
	store, mr := newTestPendingLogins(t)
	ctx := context.Background()

	t.Run("unknown handle", func(t *testing.T) {
		got, ok, err := store.Find(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, got)
	})

	t.Run("expired handle", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "short", uuid.New(), time.Minute))
		mr.FastForward(time.Minute + time.Second)

		_, ok, err := store.Find(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, mr.Set("pending_login:handle:bad", "not-a-uuid"))

		_, ok, err := store.Find(ctx, "bad")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("redis down", func(t *testing.T) {
		down, downMr := newTestPendingLogins(t)
		downMr.Close()

		_, ok, err := down.Find(ctx, "tok")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestPendingLogins_RejectsNonPositiveTTL(t *testing.T) {
	store, mr := newTestPendingLogins(t)

	err := store.Save(context.Background(), "tok", uuid.New(), 0)
	assert.Error(t, err)
	assert.False(t, mr.Exists("pending_login:handle:tok"))
}
