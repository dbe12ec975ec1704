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

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_FetchOnMissThenHit(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			*dest = cachedThing{ID: 7, Name: "alice"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)

	var second cachedThing
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	setupCache(t)

	var dest cachedThing
	wantErr := errors.New("db down")
	err := Aside(context.Background(), UserKey(1), &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidateUser(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedThing{ID: 3}, time.Minute))
	assert.True(t, mr.Exists(UserKey(3)))

	InvalidateUser(ctx, 3)
	assert.False(t, mr.Exists(UserKey(3)))
}

func TestAside_NilClientAlwaysFetches(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest cachedThing
	require.NoError(t, Aside(context.Background(), UserKey(1), &dest, time.Minute, func() error {
		fetches++
		dest = cachedThing{ID: 1}
		return nil
	}))
	assert.Equal(t, 1, fetches)
}
