// Package sync orchestrates order synchronization runs: fetching pages of
// orders from the store platform, reconciling them into the local database,
// forwarding each to billing and recording the run outcome durably.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/domain/sync"
)

const (
	// pageSize is the fixed page size requested from the store platform
	pageSize = 50
	// defaultRunLockTTL bounds how long a crashed run can block the next one
	defaultRunLockTTL = 30 * time.Minute
	// incrementalFallback is used as the watermark when no completed run exists
	incrementalFallback = 24 * time.Hour
)

// Orchestrator coordinates sync runs. At most one run executes at a time;
// the run lock enforces this across instances.
type Orchestrator struct {
	platform sync.StorePlatform
	billing  sync.BillingGateway
	orders   sync.OrderRepository
	runs     sync.SyncRunRepository
	lock     sync.RunLock
	lockTTL  time.Duration
	logger   *zap.Logger
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithRunLockTTL overrides the default run lock expiry
func WithRunLockTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		if ttl > 0 {
			o.lockTTL = ttl
		}
	}
}

// NewOrchestrator creates a sync orchestrator
func NewOrchestrator(
	platform sync.StorePlatform,
	billing sync.BillingGateway,
	orders sync.OrderRepository,
	runs sync.SyncRunRepository,
	lock sync.RunLock,
	logger *zap.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		platform: platform,
		billing:  billing,
		orders:   orders,
		runs:     runs,
		lock:     lock,
		lockTTL:  defaultRunLockTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ---------------------------------------------------------------------------
// Full and Incremental Sync
// ---------------------------------------------------------------------------

// RunFull executes a sync run. A nil since pages through the store's entire
// order history; with since set, a single filtered fetch covers the window.
func (o *Orchestrator) RunFull(ctx context.Context, since *time.Time) (*sync.RunResult, error) {
	return o.runPaginated(ctx, since)
}

// RunIncremental executes a sync from the last completed run's finish time.
// Without a prior completed run it falls back to the last 24 hours.
func (o *Orchestrator) RunIncremental(ctx context.Context) (*sync.RunResult, error) {
	watermark := o.incrementalWatermark(ctx)
	return o.runPaginated(ctx, &watermark)
}

// incrementalWatermark picks the cutoff for an incremental run
func (o *Orchestrator) incrementalWatermark(ctx context.Context) time.Time {
	last, err := o.runs.FindLastCompleted(ctx)
	if err == nil && last.CompletedAt != nil {
		return *last.CompletedAt
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		o.logger.Warn("failed to load last completed run, using fallback watermark", zap.Error(err))
	}
	return time.Now().Add(-incrementalFallback)
}

// runPaginated walks the store's order pages until an empty page (or, with a
// since cutoff, a single filtered fetch), reconciling and forwarding each
// order. Per-item failures accumulate in the run record; only platform-level
// failures abort the run.
func (o *Orchestrator) runPaginated(ctx context.Context, since *time.Time) (*sync.RunResult, error) {
	if err := o.lock.Acquire(ctx, o.lockTTL); err != nil {
		return nil, err
	}
	defer func() {
		if err := o.lock.Release(context.WithoutCancel(ctx)); err != nil {
			o.logger.Warn("failed to release run lock", zap.Error(err))
		}
	}()

	run := sync.NewSyncRun(sync.RunTypeFull)
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	run.Start()
	if err := o.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run start: %w", err)
	}

	o.logger.Info("sync run started",
		zap.String("run_id", run.ID.String()),
		zap.Timep("since", since),
	)

	processed := 0
	synced := 0
	itemErrors := make([]string, 0)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, o.failRun(ctx, run, fmt.Errorf("sync cancelled: %w", err))
		}

		orders, err := o.platform.FetchOrders(ctx, page, pageSize, since)
		if err != nil {
			return nil, o.failRun(ctx, run, err)
		}
		if len(orders) == 0 {
			break
		}

		for i := range orders {
			processed++
			if outcome, itemErr := o.processOrder(ctx, &orders[i], false); itemErr != nil {
				itemErrors = append(itemErrors, fmt.Sprintf("order %s: %v", orders[i].ExternalID, itemErr))
			} else if outcome == reconcileSynced {
				synced++
			}
		}

		// A filtered run takes the created-after collection in a single fetch
		if since != nil {
			break
		}

		// Progress checkpoint after each page so a crash loses at most one page
		run.Progress(processed, synced, itemErrors)
		if err := o.runs.Update(ctx, run); err != nil {
			o.logger.Warn("failed to checkpoint sync run", zap.Error(err))
		}

		o.logger.Debug("processed order page",
			zap.String("run_id", run.ID.String()),
			zap.Int("page", page),
			zap.Int("orders_in_page", len(orders)),
			zap.Int("processed", processed),
		)
	}

	run.Complete(processed, synced, itemErrors)
	if err := o.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to finalize sync run: %w", err)
	}

	o.logger.Info("sync run completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("processed", processed),
		zap.Int("synced", synced),
		zap.Int("errors", len(itemErrors)),
		zap.Int("duration_seconds", run.DurationSeconds()),
	)

	return &sync.RunResult{
		Success:         true,
		LogID:           run.ID,
		Processed:       processed,
		Synced:          synced,
		ErrorCount:      len(itemErrors),
		DurationSeconds: run.DurationSeconds(),
	}, nil
}

// failRun finalizes the run as failed and returns the causing error
func (o *Orchestrator) failRun(ctx context.Context, run *sync.SyncRun, cause error) error {
	run.Fail(cause.Error())
	if err := o.runs.Update(context.WithoutCancel(ctx), run); err != nil {
		o.logger.Error("failed to record sync run failure", zap.Error(err))
	}
	o.logger.Error("sync run failed",
		zap.String("run_id", run.ID.String()),
		zap.Error(cause),
	)
	return cause
}

// ---------------------------------------------------------------------------
// Single-Order Sync
// ---------------------------------------------------------------------------

// RunSingle syncs one order by its store identifier. It records its own
// run and does not take the run lock; syncing one order while a paginated
// run executes is harmless because both paths upsert on the external ID.
// With force set, an already-synced order is re-forwarded to billing.
func (o *Orchestrator) RunSingle(ctx context.Context, externalID string, force bool) (*sync.SingleResult, error) {
	run := sync.NewSyncRun(sync.RunTypeSingle)
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	run.Start()
	if err := o.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sync run start: %w", err)
	}

	storeOrder, err := o.platform.FetchOrder(ctx, externalID)
	if err != nil {
		_ = o.failRun(ctx, run, err)
		if errors.Is(err, sync.ErrOrderNotFound) {
			return &sync.SingleResult{Success: false, Message: fmt.Sprintf("Order %s not found", externalID)}, err
		}
		return nil, err
	}

	outcome, itemErr := o.processOrder(ctx, storeOrder, force)
	if itemErr != nil && !errors.Is(itemErr, errBillingRejected) {
		// A hard reconciliation error fails a one-item run; the per-item
		// tolerance only applies to paginated runs
		return nil, o.failRun(ctx, run, fmt.Errorf("order %s: %w", externalID, itemErr))
	}
	switch {
	case itemErr != nil:
		run.Complete(1, 0, []string{fmt.Sprintf("order %s: %v", externalID, itemErr)})
	case outcome == reconcileSynced:
		run.Complete(1, 1, nil)
	default:
		run.Complete(1, 0, nil)
	}
	if err := o.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to finalize sync run: %w", err)
	}

	switch {
	case itemErr != nil:
		return &sync.SingleResult{Success: false, Message: itemErr.Error()}, nil
	case outcome == reconcileSkipped:
		return &sync.SingleResult{Success: true, Message: fmt.Sprintf("Order %s already synced", externalID)}, nil
	case outcome == reconcileSynced:
		return &sync.SingleResult{Success: true, Message: fmt.Sprintf("Order %s synced successfully", externalID)}, nil
	default:
		return &sync.SingleResult{Success: false, Message: fmt.Sprintf("Order %s stored but billing forward failed", externalID)}, nil
	}
}

// ---------------------------------------------------------------------------
// Reconciliation
// ---------------------------------------------------------------------------

// errBillingRejected marks a forward the billing system refused. The order is
// stored and retried later; unlike a hard reconciliation error it never fails
// a single-order run.
var errBillingRejected = errors.New("billing forward failed")

// reconcileResult classifies what processOrder did with one order
type reconcileResult int

const (
	// reconcileFailed means the order was stored but billing rejected it
	reconcileFailed reconcileResult = iota
	// reconcileSynced means the order was stored and billing accepted it
	reconcileSynced
	// reconcileSkipped means the order was already synced and left untouched
	reconcileSkipped
)

// processOrder upserts the store order locally and forwards it to billing.
// An already-synced order is never forwarded again unless force is set; a
// stored order whose forward failed stays pending and is retried next run.
func (o *Orchestrator) processOrder(ctx context.Context, storeOrder *sync.StoreOrder, force bool) (reconcileResult, error) {
	order, err := o.orders.FindByExternalID(ctx, storeOrder.ExternalID)
	switch {
	case err == nil:
		if order.Synced && !force {
			return reconcileSkipped, nil
		}
		if applyErr := order.ApplyStoreOrder(storeOrder); applyErr != nil {
			return reconcileFailed, applyErr
		}
	case errors.Is(err, shared.ErrNotFound):
		order, err = sync.NewOrder(storeOrder)
		if err != nil {
			return reconcileFailed, err
		}
	default:
		return reconcileFailed, fmt.Errorf("failed to load order: %w", err)
	}

	outcome := o.billing.Forward(ctx, storeOrder)
	if outcome.OK {
		order.MarkSynced(outcome)
	}

	if err := o.orders.Save(ctx, order); err != nil {
		return reconcileFailed, fmt.Errorf("failed to save order: %w", err)
	}

	if !outcome.OK {
		return reconcileFailed, fmt.Errorf("%w: %s", errBillingRejected, outcome.Detail)
	}
	return reconcileSynced, nil
}

// ---------------------------------------------------------------------------
// Run Queries
// ---------------------------------------------------------------------------

// GetLastRun returns the most recently started run, or shared.ErrNotFound
// when no run was ever recorded
func (o *Orchestrator) GetLastRun(ctx context.Context) (*sync.SyncRun, error) {
	return o.runs.FindLast(ctx)
}

// GetRecentRuns lists the most recent runs, newest first
func (o *Orchestrator) GetRecentRuns(ctx context.Context, limit int) ([]sync.SyncRun, error) {
	return o.runs.FindRecent(ctx, limit)
}
