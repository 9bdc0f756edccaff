package cache

import (
	"context"
	"sync"
	"time"

	syncdomain "github.com/pharmasync/backend/internal/domain/sync"
)

// InMemoryRunLock implements RunLock with a mutex-guarded expiry.
// This is suitable for single-instance deployments and testing.
type InMemoryRunLock struct {
	mu        sync.Mutex
	held      bool
	expiresAt time.Time
}

// NewInMemoryRunLock creates a new in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{}
}

// Acquire takes the lock unless another run holds it and the TTL has not
// lapsed. An expired lock is treated as free, mirroring the Redis behavior.
func (l *InMemoryRunLock) Acquire(ctx context.Context, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held && time.Now().Before(l.expiresAt) {
		return syncdomain.ErrSyncAlreadyRunning
	}

	l.held = true
	l.expiresAt = time.Now().Add(ttl)
	return nil
}

// Release gives the lock back
func (l *InMemoryRunLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

// Ensure InMemoryRunLock implements RunLock
var _ syncdomain.RunLock = (*InMemoryRunLock)(nil)
