package locks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// Local is an in-process Locker. It only serializes callers inside one API instance.
type Local struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewLocal creates an empty in-process Locker
func NewLocal() *Local {
	return &Local{entries: make(map[string]entry), now: time.Now}
}

// TryAcquire takes key if it is free or its previous holder expired
func (l *Local) TryAcquire(_ context.Context, key string, ttl time.Duration) (Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.entries[key]; ok && now.Before(e.expiresAt) {
		return nil, ErrNotAcquired
	}
	token := uuid.NewString()
	l.entries[key] = entry{token: token, expiresAt: now.Add(ttl)}
	return &localLock{owner: l, key: key, token: token}, nil
}

type localLock struct {
	owner *Local
	key   string
	token string
}

func (ll *localLock) Release(context.Context) error {
	ll.owner.mu.Lock()
	defer ll.owner.mu.Unlock()

	if e, ok := ll.owner.entries[ll.key]; ok && e.token == ll.token {
		delete(ll.owner.entries, ll.key)
	}
	return nil
}
