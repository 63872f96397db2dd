// Package locker coordinates background jobs across service instances.
package locker

import (
	"context"
	"sync"
	"time"
)

// DistributedLocker hands out named leases. Implementations must be safe for
// concurrent use.
//
//	acquired, err := l.Acquire(ctx, "tagging", 10*time.Minute)
//	if err != nil || !acquired {
//	    return
//	}
//	defer l.Release(ctx, "tagging")
type DistributedLocker interface {
	// Acquire tries once to take the lease on key. It returns false without an
	// error when another holder has it. The lease expires after ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lease back. Releasing a lease this instance does not
	// hold is a no-op.
	Release(ctx context.Context, key string) error
}

// Local is a DistributedLocker for single-instance deployments without Redis.
// Leases are process-local and ignore ttl.
type Local struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewLocal creates a Local locker.
func NewLocal() *Local {
	return &Local{keys: make(map[string]struct{})}
}

// Acquire takes the lease on key if it is free.
func (l *Local) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.keys[key]; taken {
		return false, nil
	}
	l.keys[key] = struct{}{}

	return true, nil
}

// Release frees the lease on key.
func (l *Local) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.keys, key)

	return nil
}
