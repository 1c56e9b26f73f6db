package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afvalwijzer/internal/common/logger"
)

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

type fakeExecutor struct {
	mu    sync.Mutex
	calls int
	query string
	args  []interface{}
	rows  int64
	err   error
}

func (e *fakeExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.query = query
	e.args = args
	if e.err != nil {
		return nil, e.err
	}
	return fakeResult{rows: e.rows}, nil
}

func (e *fakeExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func TestPruneFetchLog(t *testing.T) {
	exec := &fakeExecutor{rows: 42}
	m := New(exec, logger.New(io.Discard))
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	result, err := m.PruneFetchLog(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, CleanupResult{
		Table:          FetchLog,
		Cutoff:         time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		RecordsDeleted: 42,
		Success:        true,
	}, result)
	assert.Contains(t, exec.query, "DELETE FROM afvalwijzer.fetch_log")
	assert.Equal(t, []interface{}{result.Cutoff}, exec.args)
}

func TestPruneFetchLogError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("relation does not exist")}
	result, err := New(exec, logger.New(io.Discard)).PruneFetchLog(context.Background(), time.Hour)

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "relation does not exist", result.Error)
}

func TestCleanupSchedulerLifecycle(t *testing.T) {
	exec := &fakeExecutor{}
	s := NewCleanupScheduler(exec, logger.New(io.Discard), SchedulerConfig{
		Interval:     time.Hour,
		Retention:    time.Hour,
		InitialDelay: 0,
	})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return exec.callCount() == 1 }, time.Second, 10*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestCleanupSchedulerRejectsZeroInterval(t *testing.T) {
	s := NewCleanupScheduler(&fakeExecutor{}, logger.New(io.Discard), SchedulerConfig{})
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestDefaultSchedulerConfig(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	assert.Equal(t, 24*time.Hour, cfg.Interval)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention)
}

func TestTriggerCleanup(t *testing.T) {
	exec := &fakeExecutor{rows: 3}
	s := NewCleanupScheduler(exec, logger.New(io.Discard), DefaultSchedulerConfig())

	result, err := s.TriggerCleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.RecordsDeleted)
	assert.False(t, s.IsRunning())
}
