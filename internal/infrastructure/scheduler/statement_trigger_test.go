package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTenantProvider struct {
	ids []uuid.UUID
	err error
}

func (p *stubTenantProvider) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	return p.ids, p.err
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantYear  int
		wantMonth int
	}{
		{
			name:      "mid year",
			now:       time.Date(2026, time.September, 1, 2, 0, 0, 0, time.UTC),
			wantYear:  2026,
			wantMonth: 8,
		},
		{
			name:      "january rolls back to december",
			now:       time.Date(2026, time.January, 1, 2, 0, 0, 0, time.UTC),
			wantYear:  2025,
			wantMonth: 12,
		},
		{
			name:      "march after a short february",
			now:       time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC),
			wantYear:  2026,
			wantMonth: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := previousMonth(tt.now)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestStatementTrigger_TriggerStatementRuns(t *testing.T) {
	executor := newStubExecutor(0)
	config := DefaultSchedulerConfig()
	config.MaxConcurrentJobs = 1

	s := NewScheduler(config, executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	tenantA := uuid.New()
	tenantB := uuid.New()
	provider := &stubTenantProvider{ids: []uuid.UUID{tenantA, tenantB}}
	trigger := NewStatementTrigger(DefaultStatementTriggerConfig(), s, provider, zap.NewNop())

	trigger.triggerStatementRuns(context.Background(), 2026, 8)

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case job := <-executor.done:
			assert.Equal(t, 2026, job.Year)
			assert.Equal(t, 8, job.Month)
			seen[job.TenantID] = true
		case <-time.After(2 * time.Second):
			t.Fatal("expected two statement run jobs")
		}
	}
	assert.True(t, seen[tenantA])
	assert.True(t, seen[tenantB])
}

func TestStatementTrigger_TenantLookupFailure(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newStubExecutor(0), zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	provider := &stubTenantProvider{err: errors.New("db down")}
	trigger := NewStatementTrigger(DefaultStatementTriggerConfig(), s, provider, zap.NewNop())

	// Must not panic or submit jobs
	trigger.triggerStatementRuns(context.Background(), 2026, 8)
}

func TestStatementTrigger_TriggerManualRun(t *testing.T) {
	executor := newStubExecutor(0)
	s := NewScheduler(DefaultSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	trigger := NewStatementTrigger(DefaultStatementTriggerConfig(), s, &stubTenantProvider{}, zap.NewNop())
	tenantID := uuid.New()

	require.NoError(t, trigger.TriggerManualRun(tenantID, 2026, 7))

	select {
	case job := <-executor.done:
		assert.Equal(t, tenantID, job.TenantID)
		assert.Equal(t, 7, job.Month)
	case <-time.After(2 * time.Second):
		t.Fatal("manual run was not executed")
	}
}

func TestStatementTrigger_StartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newStubExecutor(0), zap.NewNop())
	trigger := NewStatementTrigger(DefaultStatementTriggerConfig(), s, &stubTenantProvider{}, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
	require.NoError(t, trigger.Stop(stopCtx))
}
