package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/afvalwijzer/internal/common/logger"
)

// Table identifies a table that grows without bound.
type Table string

const (
	FetchLog Table = "afvalwijzer.fetch_log"
)

// CleanupResult represents the result of a cleanup operation
type CleanupResult struct {
	Table          Table
	Cutoff         time.Time
	RecordsDeleted int64
	Success        bool
	Error          string
}

// Executor is the part of *sql.DB used for cleanup.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Maintenance handles database cleanup operations
type Maintenance struct {
	db     Executor
	logger logger.Logger
	now    func() time.Time
}

// New creates a new Maintenance instance
func New(db Executor, logger logger.Logger) *Maintenance {
	return &Maintenance{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// PruneFetchLog deletes fetch log rows older than retention.
func (m *Maintenance) PruneFetchLog(ctx context.Context, retention time.Duration) (CleanupResult, error) {
	result := CleanupResult{
		Table:  FetchLog,
		Cutoff: m.now().Add(-retention),
	}

	m.logger.Info("Pruning fetch log", "cutoff", result.Cutoff)

	res, err := m.db.ExecContext(ctx,
		`DELETE FROM afvalwijzer.fetch_log WHERE fetched_at < $1`, result.Cutoff)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("deleting from %s: %w", FetchLog, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("getting rows affected: %w", err)
	}

	result.RecordsDeleted = deleted
	result.Success = true

	m.logger.Info("Fetch log pruned", "records_deleted", deleted)
	return result, nil
}
