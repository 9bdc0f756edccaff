package sync

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// RunType and RunStatus
// ---------------------------------------------------------------------------

// RunType represents the kind of sync run
type RunType string

const (
	// RunTypeFull covers full and incremental synchronization
	RunTypeFull RunType = "full"
	// RunTypeSingle covers a resync of one order
	RunTypeSingle RunType = "single"
	// RunTypeManual covers operator-triggered ad-hoc runs
	RunTypeManual RunType = "manual"
)

// IsValid returns true if the run type is valid
func (t RunType) IsValid() bool {
	switch t {
	case RunTypeFull, RunTypeSingle, RunTypeManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of RunType
func (t RunType) String() string {
	return string(t)
}

// RunStatus represents the lifecycle state of a sync run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsValid returns true if the status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of RunStatus
func (s RunStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the run can no longer change
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// ---------------------------------------------------------------------------
// SyncRun Entity
// ---------------------------------------------------------------------------

// SyncRun is the durable record of one sync execution. The orchestrator owns
// it exclusively for the duration of the run; it is immutable afterwards and
// never deleted.
//
// Invariant: CompletedAt is set iff the status is terminal. DurationSeconds is
// only meaningful once both timestamps are set. Counters never decrease within
// a run.
type SyncRun struct {
	ID              uuid.UUID
	Type            RunType
	Status          RunStatus
	OrdersProcessed int
	OrdersSynced    int
	ErrorDetails    string
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewSyncRun creates a pending run with zeroed counters
func NewSyncRun(runType RunType) *SyncRun {
	now := time.Now()
	return &SyncRun{
		ID:        uuid.New(),
		Type:      runType,
		Status:    RunStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start transitions the run to running and records the start time
func (r *SyncRun) Start() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.UpdatedAt = now
}

// Progress updates the counters and accumulated error text mid-run
func (r *SyncRun) Progress(processed, synced int, errs []string) {
	r.OrdersProcessed = processed
	r.OrdersSynced = synced
	if len(errs) > 0 {
		r.ErrorDetails = strings.Join(errs, "; ")
	}
	r.UpdatedAt = time.Now()
}

// Complete finalizes the run as completed with its counters. Per-item errors
// do not prevent completion; they remain visible in ErrorDetails.
func (r *SyncRun) Complete(processed, synced int, errs []string) {
	now := time.Now()
	r.OrdersProcessed = processed
	r.OrdersSynced = synced
	if len(errs) > 0 {
		r.ErrorDetails = strings.Join(errs, "; ")
	}
	r.Status = RunStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// Fail finalizes the run as failed with the run-level error message
func (r *SyncRun) Fail(errMsg string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.ErrorDetails = errMsg
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// DurationSeconds returns completedAt − startedAt truncated to whole seconds,
// or 0 while either timestamp is missing.
func (r *SyncRun) DurationSeconds() int {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return 0
	}
	return int(r.CompletedAt.Sub(*r.StartedAt) / time.Second)
}

// SuccessRate returns the synced/processed percentage rounded to two decimals
func (r *SyncRun) SuccessRate() float64 {
	if r.OrdersProcessed == 0 {
		return 0
	}
	rate := float64(r.OrdersSynced) / float64(r.OrdersProcessed) * 100
	return float64(int(rate*100+0.5)) / 100
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// RunResult is returned to callers of full and incremental sync
type RunResult struct {
	// Success is true when the run completed, even with per-item failures
	Success bool
	// LogID identifies the SyncRun recorded for this execution
	LogID uuid.UUID
	// Processed is the number of remote orders examined
	Processed int
	// Synced is the number of orders whose billing forward succeeded
	Synced int
	// ErrorCount is the number of per-item failures
	ErrorCount int
	// DurationSeconds is the run duration in whole seconds
	DurationSeconds int
}

// SingleResult is returned to callers of a single-order sync
type SingleResult struct {
	Success bool
	Message string
}
