package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aits/internal/testutil"
)

func TestTokenStore_RefreshRegistry(t *testing.T) {
	c, srv := testutil.NewTestCache(t)
	store := NewTokenStore(c)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "jti-1", alice, time.Hour))

	got, err := store.GetRefreshToken(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, alice, got)
	assert.True(t, srv.Exists(refreshTokenKeyPrefix+"jti-1"))

	require.NoError(t, store.DeleteRefreshToken(ctx, "jti-1"))
	_, err = store.GetRefreshToken(ctx, "jti-1")
	assert.Error(t, err)
}

func TestTokenStore_Blacklist(t *testing.T) {
	c, srv := testutil.NewTestCache(t)
	store := NewTokenStore(c)
	ctx := context.Background()

	blacklisted, err := store.IsRefreshTokenBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	added, err := store.BlacklistRefreshToken(ctx, "jti-2", time.Hour)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.BlacklistRefreshToken(ctx, "jti-2", time.Hour)
	require.NoError(t, err)
	assert.False(t, added)

	blacklisted, err = store.IsRefreshTokenBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	assert.InDelta(t, time.Hour.Seconds(), srv.TTL(blacklistKeyPrefix+"jti-2").Seconds(), 1)
}

func TestTokenStore_BlacklistFailsWhenRedisDown(t *testing.T) {
	c, srv := testutil.NewTestCache(t)
	store := NewTokenStore(c)
	srv.Close()

	_, err := store.BlacklistRefreshToken(context.Background(), "jti-3", time.Hour)
	assert.Error(t, err)
}
