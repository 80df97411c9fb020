package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// stubExecutor counts executions and fails a configurable number of times
type stubExecutor struct {
	executions atomic.Int32
	failUntil  int32
	done       chan *Job
}

func newStubExecutor(failUntil int32) *stubExecutor {
	return &stubExecutor{
		failUntil: failUntil,
		done:      make(chan *Job, 10),
	}
}

func (e *stubExecutor) Execute(ctx context.Context, job *Job) error {
	n := e.executions.Add(1)
	if n <= e.failUntil {
		return errors.New("transient failure")
	}
	e.done <- job
	return nil
}

// ---------------------------------------------------------------------------
// Job Tests
// ---------------------------------------------------------------------------

func TestNewStatementRunJob(t *testing.T) {
	tenantID := uuid.New()

	job := NewStatementRunJob(tenantID, 2026, 8, 3)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobTypeStatementRun, job.Type)
	assert.Equal(t, tenantID, job.TenantID)
	assert.Equal(t, 2026, job.Year)
	assert.Equal(t, 8, job.Month)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestJob_Start(t *testing.T) {
	job := NewStatementRunJob(uuid.New(), 2026, 8, 3)
	job.Error = "previous error"

	job.Start()

	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.Empty(t, job.Error)
}

func TestJob_Fail(t *testing.T) {
	job := NewStatementRunJob(uuid.New(), 2026, 8, 3)
	job.Start()

	job.Fail("statement run failed")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, "statement run failed", job.Error)
}

func TestJob_ShouldRetry(t *testing.T) {
	job := NewStatementRunJob(uuid.New(), 2026, 8, 2)

	job.Fail("boom")
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Millisecond)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.NotNil(t, job.NextRetryAt)

	job.Fail("boom")
	job.ScheduleRetry(time.Millisecond)
	job.Fail("boom")
	assert.False(t, job.ShouldRetry())
}

// ---------------------------------------------------------------------------
// Scheduler Tests
// ---------------------------------------------------------------------------

func TestScheduler_SubmitJob_NotRunning(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newStubExecutor(0), zap.NewNop())

	err := s.SubmitJob(NewStatementRunJob(uuid.New(), 2026, 8, 3))

	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesSubmittedJob(t *testing.T) {
	executor := newStubExecutor(0)
	config := DefaultSchedulerConfig()
	config.MaxConcurrentJobs = 1

	s := NewScheduler(config, executor, newTestLogger())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	tenantID := uuid.New()
	require.NoError(t, s.ScheduleStatementRun(tenantID, 2026, 8))

	select {
	case job := <-executor.done:
		assert.Equal(t, tenantID, job.TenantID)
		assert.Equal(t, 2026, job.Year)
		assert.Equal(t, 8, job.Month)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := newStubExecutor(1)
	config := DefaultSchedulerConfig()
	config.MaxConcurrentJobs = 1
	config.RetryAttempts = 2
	config.RetryDelay = time.Millisecond

	s := NewScheduler(config, executor, newTestLogger())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	require.NoError(t, s.ScheduleStatementRun(uuid.New(), 2026, 8))

	select {
	case job := <-executor.done:
		assert.Equal(t, 1, job.RetryCount)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.GreaterOrEqual(t, executor.executions.Load(), int32(2))
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newStubExecutor(0), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))
}
