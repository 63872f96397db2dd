package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "lock:"

// RedisLocker implements DistributedLocker with Redsync (Redlock over a single
// Redis deployment). Keys are stored under "lock:<key>".
type RedisLocker struct {
	rs     *redsync.Redsync
	logger *zap.Logger

	mu     sync.Mutex
	leases map[string]*redsync.Mutex
}

// NewRedisLocker creates a RedisLocker on top of an existing client.
func NewRedisLocker(client redis.UniversalClient, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		logger: logger,
		leases: make(map[string]*redsync.Mutex),
	}
}

// Acquire makes a single, non-blocking attempt to take the lease.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lease := r.rs.NewMutex(keyPrefix+key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := lease.LockContext(ctx); err != nil {
		if isContention(err) {
			r.logger.Debug("lease held elsewhere", zap.String("key", key))
			return false, nil
		}
		return false, fmt.Errorf("acquire lease %s: %w", key, err)
	}

	r.mu.Lock()
	r.leases[key] = lease
	r.mu.Unlock()

	r.logger.Debug("lease acquired", zap.String("key", key), zap.Duration("ttl", ttl))

	return true, nil
}

// Release unlocks the lease if this instance still holds it. A lease that
// already expired is not an error.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	lease, ok := r.leases[key]
	delete(r.leases, key)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	released, err := lease.UnlockContext(ctx)
	if err != nil {
		if errors.Is(err, redsync.ErrLockAlreadyExpired) || isContention(err) {
			r.logger.Debug("lease expired before release", zap.String("key", key))
			return nil
		}
		return fmt.Errorf("release lease %s: %w", key, err)
	}

	r.logger.Debug("lease released", zap.String("key", key), zap.Bool("owned", released))

	return nil
}

func isContention(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken)
}
