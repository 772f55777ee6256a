package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Client = nil })
	return mr
}

func TestAside_CachesFetchResult(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *string) func() error {
		return func() error {
			fetches++
			*dest = "from-db"
			return nil
		}
	}

	var first string
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "from-db", first)
	assert.Equal(t, 1, fetches)

	var second string
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "from-db", second)
	// Second read was served from cache.
	assert.Equal(t, 1, fetches)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	withTestRedis(t)

	var dest string
	wantErr := errors.New("db down")
	err := Aside(context.Background(), "k", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	Client = nil

	fetches := 0
	var dest string
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
			fetches++
			dest = "value"
			return nil
		}))
	}
	// No cache, so every read hits the source.
	assert.Equal(t, 2, fetches)
}

func TestDelete_InvalidatesKey(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), "cached", time.Minute))
	Delete(ctx, UserKey(1))

	var dest string
	found, err := GetJSON(ctx, UserKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}
