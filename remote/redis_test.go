// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMiniRedis creates a test Redis server using miniredis.
func setupMiniRedis(t *testing.T, prefix string) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisFromClient(client, prefix)
}

func TestRedis_Fetch(t *testing.T) {
	mr, r := setupMiniRedis(t, "confj:")
	require.NoError(t, mr.Set("confj:app", `{"port": 8080}`))

	doc, err := r.Fetch(context.Background(), "app")
	require.NoError(t, err)
	assert.JSONEq(t, `{"port": 8080}`, doc)
}

func TestRedis_FetchMissing(t *testing.T) {
	_, r := setupMiniRedis(t, "")

	_, err := r.Fetch(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestRedis_PutThenFetch(t *testing.T) {
	mr, r := setupMiniRedis(t, "p/")
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "svc", `{"a":1}`))
	got, err := mr.Get("p/svc")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	doc, err := r.Fetch(ctx, "svc")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, doc)
}

func TestRedis_ServerDown(t *testing.T) {
	mr, r := setupMiniRedis(t, "")
	mr.Close()

	_, err := r.Fetch(context.Background(), "app")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("k", `[]`))

	r, err := NewRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer r.Close()

	doc, err := r.Fetch(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, doc)
}
