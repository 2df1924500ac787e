package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestClient_GetSetDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_SetNX(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "bl", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "bl", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := c.Exists(ctx, "bl")
	require.NoError(t, err)
	assert.True(t, exists)

	srv.FastForward(2 * time.Minute)
	exists, err = c.Exists(ctx, "bl")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_UnreachableFailsSafe(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	_, err = c.SetNX(ctx, "k", []byte("v"), time.Minute)
	assert.Error(t, err)
	_, err = c.Exists(ctx, "k")
	assert.Error(t, err)
}

func TestClient_Nil(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = c.SetNX(ctx, "k", nil, time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)
}
