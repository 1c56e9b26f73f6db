package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/afvalwijzer/internal/common/logger"
)

// CleanupScheduler handles periodic maintenance tasks
type CleanupScheduler struct {
	maintenance *Maintenance
	logger      logger.Logger
	config      SchedulerConfig
	isRunning   bool
	mu          sync.RWMutex
	cancelFn    context.CancelFunc
}

// SchedulerConfig contains configuration for the cleanup scheduler
type SchedulerConfig struct {
	Interval     time.Duration // How often to prune
	Retention    time.Duration // How long to keep fetch log rows
	InitialDelay time.Duration // Wait before the first run
}

// DefaultSchedulerConfig returns sensible defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:     24 * time.Hour,
		Retention:    30 * 24 * time.Hour,
		InitialDelay: time.Minute,
	}
}

// NewCleanupScheduler creates a new cleanup scheduler
func NewCleanupScheduler(db Executor, logger logger.Logger, config SchedulerConfig) *CleanupScheduler {
	return &CleanupScheduler{
		maintenance: New(db, logger),
		logger:      logger,
		config:      config,
	}
}

// Start begins the cleanup scheduling
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cleanup scheduler is already running")
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFn = cancel
	s.isRunning = true

	s.logger.Info("Starting cleanup scheduler",
		"interval", s.config.Interval,
		"retention", s.config.Retention)

	go s.cleanupLoop(ctx)

	return nil
}

// Stop stops the cleanup scheduler
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	if s.cancelFn != nil {
		s.cancelFn()
	}

	s.isRunning = false
	s.logger.Info("Cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *CleanupScheduler) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	initialDelay := time.NewTimer(s.config.InitialDelay)
	defer initialDelay.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cleanup loop stopping")
			return

		case <-initialDelay.C:
			s.performCleanup(ctx)

		case <-ticker.C:
			s.performCleanup(ctx)
		}
	}
}

func (s *CleanupScheduler) performCleanup(ctx context.Context) {
	start := time.Now()
	result, err := s.maintenance.PruneFetchLog(ctx, s.config.Retention)
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("Fetch log cleanup failed", "error", err, "duration", duration)
		return
	}

	s.logger.Info("Fetch log cleanup completed",
		"duration", duration,
		"records_deleted", result.RecordsDeleted)
}

// TriggerCleanup runs a cleanup immediately.
func (s *CleanupScheduler) TriggerCleanup(ctx context.Context) (CleanupResult, error) {
	s.logger.Info("Manual fetch log cleanup triggered")
	return s.maintenance.PruneFetchLog(ctx, s.config.Retention)
}
