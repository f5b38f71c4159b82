package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultTTL bounds how long a crashed holder can block a key
	DefaultTTL = 30 * time.Second
	// DefaultRetryInterval is the pause between attempts to obtain a busy key
	DefaultRetryInterval = 100 * time.Millisecond
)

// RedisLocker obtains locks through Redis so they hold across instances
type RedisLocker struct {
	client        *redislock.Client
	keyPrefix     string
	ttl           time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

// RedisLockerOption configures a RedisLocker
type RedisLockerOption func(*RedisLocker)

// WithTTL sets the lock expiry
func WithTTL(ttl time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces every lock key
func WithKeyPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) {
		l.keyPrefix = prefix
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RedisLockerOption {
	return func(l *RedisLocker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewRedisLocker creates a RedisLocker on an existing client
func NewRedisLocker(client redis.UniversalClient, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client:        redislock.New(client),
		keyPrefix:     "papershop:lock:",
		ttl:           DefaultTTL,
		retryInterval: DefaultRetryInterval,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithLock obtains key, retrying until the lock TTL has passed, runs fn and
// releases the key.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	attempts := int(l.ttl / l.retryInterval)
	if attempts < 1 {
		attempts = 1
	}
	lk, err := l.client.Obtain(ctx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.retryInterval), attempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		l.logger.Warn("Could not obtain lock", zap.String("key", key))
		return ErrNotObtained
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		// a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}
