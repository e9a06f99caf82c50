package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/siniestros/backend/internal/domain/claims"
	"go.uber.org/zap"
)

const (
	// DefaultLockTTL bounds how long a crashed holder blocks a claim
	DefaultLockTTL = 30 * time.Second
	lockKeyFormat  = "siniestros:lock:%d"
)

// RedisClaimLocker serializes reserve adjustments of a claim across API instances
type RedisClaimLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClaimLocker creates a locker backed by redislock
func NewRedisClaimLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisClaimLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisClaimLocker{
		locker: redislock.New(client),
		ttl:    ttl,
		logger: logger,
	}
}

// Lock obtains the claim lock without retrying.
// A held lock is reported as claims.ErrClaimBusy.
func (l *RedisClaimLocker) Lock(ctx context.Context, numSiniestro int64) (func(context.Context) error, error) {
	key := LockKey(numSiniestro)
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		l.logger.Warn("claim lock held by another request",
			zap.Int64("num_siniestro", numSiniestro),
		)
		return nil, claims.ErrClaimBusy
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain claim lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("failed to release claim lock %s: %w", key, err)
		}
		return nil
	}, nil
}

// LockKey returns the Redis key guarding a claim
func LockKey(numSiniestro int64) string {
	return fmt.Sprintf(lockKeyFormat, numSiniestro)
}
