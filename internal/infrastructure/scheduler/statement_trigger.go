package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants statements are generated for
type TenantProvider interface {
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StatementTriggerConfig holds configuration for the monthly statement trigger
type StatementTriggerConfig struct {
	// Hour and Minute of day the run fires on the 1st of the month
	Hour   int
	Minute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultStatementTriggerConfig returns default statement trigger configuration
func DefaultStatementTriggerConfig() StatementTriggerConfig {
	return StatementTriggerConfig{
		Hour:          2,
		Minute:        0,
		CheckInterval: time.Minute,
	}
}

// StatementTrigger fires monthly statement generation for every active
// tenant on the 1st of each month, covering the month that just ended.
type StatementTrigger struct {
	config         StatementTriggerConfig
	scheduler      *Scheduler
	tenantProvider TenantProvider
	logger         *zap.Logger

	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.Mutex
	isRunning    bool
	lastRunMonth string // Track which month we last ran for
}

// NewStatementTrigger creates a new statement trigger
func NewStatementTrigger(
	config StatementTriggerConfig,
	scheduler *Scheduler,
	tenantProvider TenantProvider,
	logger *zap.Logger,
) *StatementTrigger {
	return &StatementTrigger{
		config:         config,
		scheduler:      scheduler,
		tenantProvider: tenantProvider,
		logger:         logger,
	}
}

// Start starts the statement trigger
func (t *StatementTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Statement trigger started",
		zap.Int("hour", t.config.Hour),
		zap.Int("minute", t.config.Minute),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the statement trigger
func (t *StatementTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Statement trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the monthly generation
func (t *StatementTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires the run on the 1st of the month at the configured time
func (t *StatementTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentMonth := now.Format("2006-01")

	// Skip if we already ran this month
	t.mu.Lock()
	if t.lastRunMonth == currentMonth {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if now.Day() != 1 || now.Hour() != t.config.Hour || now.Minute() != t.config.Minute {
		return
	}

	t.mu.Lock()
	t.lastRunMonth = currentMonth
	t.mu.Unlock()

	year, month := previousMonth(now)
	t.logger.Info("Triggering monthly statement generation",
		zap.Int("year", year),
		zap.Int("month", month),
	)
	t.triggerStatementRuns(ctx, year, month)
}

// triggerStatementRuns schedules a statement run for every active tenant
func (t *StatementTrigger) triggerStatementRuns(ctx context.Context, year, month int) {
	tenantIDs, err := t.tenantProvider.FindActiveIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list tenants for statement runs", zap.Error(err))
		return
	}

	t.logger.Info("Scheduling statement runs for tenants",
		zap.Int("tenant_count", len(tenantIDs)),
	)

	for _, tenantID := range tenantIDs {
		if err := t.scheduler.ScheduleStatementRun(tenantID, year, month); err != nil {
			t.logger.Error("Failed to schedule statement run for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
}

// TriggerManualRun schedules a statement run for one tenant and period,
// outside the monthly cadence
func (t *StatementTrigger) TriggerManualRun(tenantID uuid.UUID, year, month int) error {
	return t.scheduler.ScheduleStatementRun(tenantID, year, month)
}

// previousMonth returns the year and month of the calendar month before the
// given time. Computed from the first of the current month so that months
// of different lengths cannot skew the result.
func previousMonth(now time.Time) (int, int) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, 0, -1)
	return prev.Year(), int(prev.Month())
}
