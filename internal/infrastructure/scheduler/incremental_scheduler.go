package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	syncdomain "github.com/pharmasync/backend/internal/domain/sync"
)

// SyncRunner triggers an incremental sync run. The application orchestrator
// satisfies this interface.
type SyncRunner interface {
	RunIncremental(ctx context.Context) (*syncdomain.RunResult, error)
}

// Config holds configuration for the incremental sync scheduler
type Config struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is the time between incremental sync runs
	Interval time.Duration
	// RunTimeout is the maximum time a triggered run may take
	RunTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Interval:   15 * time.Minute,
		RunTimeout: 15 * time.Minute,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.RunTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// IncrementalScheduler triggers incremental sync runs on a fixed interval.
// A tick that finds another run in progress is skipped, not queued.
type IncrementalScheduler struct {
	config Config
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIncrementalScheduler creates a new incremental sync scheduler
func NewIncrementalScheduler(config Config, runner SyncRunner, logger *zap.Logger) (*IncrementalScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IncrementalScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the scheduler loop
func (s *IncrementalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Incremental sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *IncrementalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Incremental sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Incremental sync scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs one incremental sync immediately, outside the interval
func (s *IncrementalScheduler) TriggerNow(ctx context.Context) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	s.runOnce(ctx)
	return nil
}

// loop fires the incremental sync on every tick until the context ends
func (s *IncrementalScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single incremental sync with the configured timeout
func (s *IncrementalScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	result, err := s.runner.RunIncremental(runCtx)
	if err != nil {
		if errors.Is(err, syncdomain.ErrSyncAlreadyRunning) {
			s.logger.Info("Skipping scheduled sync, another run is in progress")
			return
		}
		s.logger.Error("Scheduled incremental sync failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled incremental sync completed",
		zap.String("log_id", result.LogID.String()),
		zap.Int("processed", result.Processed),
		zap.Int("synced", result.Synced),
		zap.Int("error_count", result.ErrorCount),
	)
}
