package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderFilter defines filter criteria for listing local orders
type OrderFilter struct {
	// Status filters by local status (optional)
	Status *OrderStatus
	// Synced filters by billing sync state (optional)
	Synced *bool
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// OrderRepository defines the interface for persisting local orders.
// It owns uniqueness on ExternalID; no other component mutates order state.
type OrderRepository interface {
	// FindByID finds an order by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByExternalID finds an order by its store identifier
	FindByExternalID(ctx context.Context, externalID string) (*Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}

// SyncRunRepository defines the interface for persisting sync runs
type SyncRunRepository interface {
	// Create persists a new run
	Create(ctx context.Context, run *SyncRun) error

	// Update persists run mutations (progress checkpoints and finalization)
	Update(ctx context.Context, run *SyncRun) error

	// FindByID finds a run by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)

	// FindLast returns the most recently started run
	FindLast(ctx context.Context) (*SyncRun, error)

	// FindLastCompleted returns the completed run with the latest CompletedAt;
	// used as the incremental sync watermark
	FindLastCompleted(ctx context.Context) (*SyncRun, error)

	// FindRecent lists the most recent runs, newest first
	FindRecent(ctx context.Context, limit int) ([]SyncRun, error)
}

// RunLock guards against overlapping sync runs. Acquire returns
// ErrSyncAlreadyRunning when another run already holds the lock; the TTL
// bounds how long a crashed run can keep the lock.
type RunLock interface {
	Acquire(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}
