package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementRunSummary reports the outcome of one tenant's statement run
type StatementRunSummary struct {
	Generated int
	Skipped   int
	Failed    int
}

// StatementGenerator runs statement generation for one tenant and month.
// The application statement service satisfies this through a thin adapter
// wired in cmd/server.
type StatementGenerator interface {
	GenerateForMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (StatementRunSummary, error)
}

// StatementExecutor executes statement generation jobs
type StatementExecutor struct {
	generator StatementGenerator
	logger    *zap.Logger
}

// NewStatementExecutor creates a new statement executor
func NewStatementExecutor(generator StatementGenerator, logger *zap.Logger) *StatementExecutor {
	return &StatementExecutor{
		generator: generator,
		logger:    logger,
	}
}

// Execute runs a single statement generation job. Per-provider failures are
// isolated inside the generator and surface in the summary, not as job errors.
func (e *StatementExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Type != JobTypeStatementRun {
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}

	summary, err := e.generator.GenerateForMonth(ctx, job.TenantID, job.Year, job.Month)
	if err != nil {
		return fmt.Errorf("statement run for tenant %s failed: %w", job.TenantID, err)
	}

	e.logger.Info("Statement run completed",
		zap.String("tenant_id", job.TenantID.String()),
		zap.Int("year", job.Year),
		zap.Int("month", job.Month),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	if summary.Failed > 0 {
		e.logger.Warn("Statement run had provider failures",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int("failed", summary.Failed),
		)
	}

	return nil
}

// Ensure StatementExecutor implements JobExecutor
var _ JobExecutor = (*StatementExecutor)(nil)
