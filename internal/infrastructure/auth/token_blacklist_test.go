package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-acceso", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-acceso")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-otro")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-refresh", 15*time.Minute))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-refresh")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(16 * time.Minute)
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-refresh")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.revoked, "expired entries are dropped on lookup")
}
