package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestRedis starts a Redis container and returns a connected client
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := NewRedisClient(config.RedisConfig{Enabled: true, Host: host, Port: port.Int()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisClaimLocker_Lock(t *testing.T) {
	client := newTestRedis(t)
	locker := NewRedisClaimLocker(client, 5*time.Second, nil)
	ctx := context.Background()

	release, err := locker.Lock(ctx, 2026000101)
	require.NoError(t, err)
	require.NotNil(t, release)

	t.Run("second lock on the same claim is busy", func(t *testing.T) {
		_, err := locker.Lock(ctx, 2026000101)
		assert.ErrorIs(t, err, claims.ErrClaimBusy)
	})

	t.Run("other claims are not blocked", func(t *testing.T) {
		releaseOther, err := locker.Lock(ctx, 2026000102)
		require.NoError(t, err)
		require.NoError(t, releaseOther(ctx))
	})

	t.Run("lock is available again after release", func(t *testing.T) {
		require.NoError(t, release(ctx))
		n, err := client.Exists(ctx, LockKey(2026000101)).Result()
		require.NoError(t, err)
		assert.Zero(t, n)

		again, err := locker.Lock(ctx, 2026000101)
		require.NoError(t, err)
		require.NoError(t, again(ctx))
	})

	t.Run("releasing twice is harmless", func(t *testing.T) {
		assert.NoError(t, release(ctx))
	})
}

func TestRedisClaimLocker_ExpiresAfterTTL(t *testing.T) {
	client := newTestRedis(t)
	locker := NewRedisClaimLocker(client, 200*time.Millisecond, nil)
	ctx := context.Background()

	_, err := locker.Lock(ctx, 2026000201)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		release, err := locker.Lock(ctx, 2026000201)
		if err != nil {
			return false
		}
		return release(ctx) == nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := newTestRedis(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "pantalla-42", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	replay, err := store.MarkProcessed(ctx, "pantalla-42", time.Minute)
	require.NoError(t, err)
	assert.False(t, replay)

	processed, err := store.IsProcessed(ctx, "pantalla-42")
	require.NoError(t, err)
	assert.True(t, processed)

	ttl, err := client.TTL(ctx, DefaultIdempotencyPrefix+"pantalla-42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Forget(ctx, "pantalla-42"))

	processed, err = store.IsProcessed(ctx, "pantalla-42")
	require.NoError(t, err)
	assert.False(t, processed)

	again, err := store.MarkProcessed(ctx, "pantalla-42", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
	require.NoError(t, store.Close())
}

func TestRedisIdempotencyStore_KeyPrefix(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	a := NewRedisIdempotencyStore(client, "instancia-a:")
	b := NewRedisIdempotencyStore(client, "instancia-b:")

	ok, err := a.MarkProcessed(ctx, "k-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.MarkProcessed(ctx, "k-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "prefixes isolate stores sharing a client")
}
