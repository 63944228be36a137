// Package locks provides short lived mutual exclusion keyed by string, either inside one
// process or across every API instance sharing a Redis server.
package locks

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned by TryAcquire when another holder owns the key
var ErrNotAcquired = errors.New("lock is held by another owner")

// Lock is a held lock. Release is safe to call after the lock expired.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out locks that expire on their own after ttl
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// DefaultRetryInterval is how often Acquire polls a held key
const DefaultRetryInterval = 50 * time.Millisecond

// Acquire blocks until key is obtained, the context is done, or the locker fails
func Acquire(ctx context.Context, l Locker, key string, ttl, retry time.Duration) (Lock, error) {
	if retry <= 0 {
		retry = DefaultRetryInterval
	}
	for {
		lock, err := l.TryAcquire(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrNotAcquired) {
			return nil, err
		}

		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
