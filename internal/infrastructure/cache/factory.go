package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	client                redis.UniversalClient
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(config.RedisConfig) (*redis.Client, error)
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory store.
// Default is true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient reuses an already connected Redis client
func WithClient(client redis.UniversalClient) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.client = client
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial:                  NewRedisClient,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based idempotency store
func (f *IdempotencyStoreFactory) CreateRedisStore() (shared.IdempotencyStore, error) {
	if f.client != nil {
		return NewRedisIdempotencyStore(f.client, DefaultIdempotencyPrefix), nil
	}

	client, err := f.dial(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
	}
	f.client = client
	return NewRedisIdempotencyStore(client, DefaultIdempotencyPrefix), nil
}

// CreateInMemoryStore creates an in-memory idempotency store.
// Keys are not shared between instances.
func (f *IdempotencyStoreFactory) CreateInMemoryStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore()
}

// CreateStore returns the Redis store when Redis is enabled and reachable.
// Otherwise it falls back to in-memory if allowed.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled && f.client == nil {
		f.logger.Info("Redis disabled, using in-memory idempotency store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Repeated adjustment requests sent to different instances will not be detected.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}

// Client returns the Redis client opened by the factory, if any
func (f *IdempotencyStoreFactory) Client() redis.UniversalClient {
	return f.client
}
