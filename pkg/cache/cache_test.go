package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.True(t, IsMiss(err))

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), time.Minute))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// 返回副本，修改不影响缓存
	got[0] = 'x'
	got, _ = s.Get(ctx, "k")
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Invalidate(ctx, "k", "not-there"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Second))
	require.NoError(t, s.Set(ctx, "default", []byte("v"), 0))

	now = now.Add(time.Second)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 1, s.Len())

	// ttl <= 0 使用默认时长
	_, err = s.Get(ctx, "default")
	assert.NoError(t, err)
	now = now.Add(DefaultTTL)
	_, err = s.Get(ctx, "default")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = s.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _ = s.Get(ctx, key)
			if i%3 == 0 {
				_ = s.Invalidate(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 5)
}

// 需要本地 Redis：COURSEADMIN_TEST_REDIS_ADDR=127.0.0.1:6379
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("COURSEADMIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COURSEADMIN_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "course-admin-test:"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "missing")
	assert.True(t, IsMiss(err))

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Invalidate(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
