package consignment

import (
	"context"
	"errors"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/logger"
	"github.com/consignmentgenie/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatementService handles monthly provider statement operations
type StatementService struct {
	statementRepo   consignment.StatementRepository
	transactionRepo consignment.TransactionRepository
	payoutRepo      consignment.PayoutRepository
	providerRepo    consignment.ProviderRepository
	eventBus        shared.EventBus
}

// NewStatementService creates a new StatementService
func NewStatementService(
	statementRepo consignment.StatementRepository,
	transactionRepo consignment.TransactionRepository,
	payoutRepo consignment.PayoutRepository,
	providerRepo consignment.ProviderRepository,
	eventBus shared.EventBus,
) *StatementService {
	return &StatementService{
		statementRepo:   statementRepo,
		transactionRepo: transactionRepo,
		payoutRepo:      payoutRepo,
		providerRepo:    providerRepo,
		eventBus:        eventBus,
	}
}

// GetByID retrieves a statement by ID
func (s *StatementService) GetByID(ctx context.Context, tenantID, statementID uuid.UUID) (*StatementResponse, error) {
	stmt, err := s.statementRepo.FindByIDForTenant(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}

	response := ToStatementResponse(stmt)
	return &response, nil
}

// List retrieves statements with filtering and pagination
func (s *StatementService) List(ctx context.Context, tenantID uuid.UUID, filter StatementListFilter) ([]StatementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "period_start"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.ProviderID != nil {
		domainFilter.Filters["provider_id"] = *filter.ProviderID
	}
	if filter.Year != 0 {
		domainFilter.Filters["year"] = filter.Year
	}
	if filter.Month != 0 {
		domainFilter.Filters["month"] = filter.Month
	}

	statements, err := s.statementRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.statementRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStatementResponses(statements), total, nil
}

// MarkViewed records that the provider has viewed the statement, freezing it
func (s *StatementService) MarkViewed(ctx context.Context, tenantID, statementID uuid.UUID) (*StatementResponse, error) {
	stmt, err := s.statementRepo.FindByIDForTenant(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}

	stmt.MarkViewed()
	if err := s.statementRepo.Save(ctx, stmt); err != nil {
		return nil, err
	}

	response := ToStatementResponse(stmt)
	return &response, nil
}

// GenerateForMonth generates statements for every active provider of a
// tenant for one month. Failures are isolated per provider: one failing
// provider is recorded in the result and the run continues.
func (s *StatementService) GenerateForMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (*StatementRunResult, error) {
	period, err := consignment.NewStatementPeriod(year, month)
	if err != nil {
		return nil, err
	}

	providers, err := s.providerRepo.FindByStatus(ctx, tenantID, consignment.ProviderStatusActive)
	if err != nil {
		return nil, err
	}

	result := &StatementRunResult{Year: year, Month: month}
	// The whole run is tagged so its CPU time is attributable in profiles;
	// it is the heaviest recurring job.
	labels := telemetry.OperationLabels("generate_statements", map[string]string{
		telemetry.ProfilingLabelTenantID: tenantID.String(),
	})
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		for i := range providers {
			provider := &providers[i]
			if err := s.generateForProvider(ctx, tenantID, provider, period); err != nil {
				var de *shared.DomainError
				if errors.As(err, &de) && de.Code == "STATEMENT_VIEWED" {
					result.Skipped++
					continue
				}
				logger.L(ctx).Warn("statement generation failed for provider",
					zap.String("tenant_id", tenantID.String()),
					zap.String("provider_id", provider.ID.String()),
					zap.Int("year", year),
					zap.Int("month", month),
					zap.Error(err))
				result.Failures = append(result.Failures, StatementRunError{
					ProviderID: provider.ID,
					Error:      err.Error(),
				})
				continue
			}
			result.Generated++
		}
	})
	return result, nil
}

// generateForProvider computes and persists one provider's statement.
// Opening balance comes from the prior persisted statement (zero when none),
// which keeps Opening(N) == Closing(N-1) by construction. Regeneration
// replaces an unviewed statement; a viewed one is immutable.
func (s *StatementService) generateForProvider(ctx context.Context, tenantID uuid.UUID, provider *consignment.Provider, period consignment.StatementPeriod) error {
	existing, err := s.statementRepo.FindByProviderAndPeriod(ctx, tenantID, provider.ID, period)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil && existing.Viewed {
		return shared.NewDomainError("STATEMENT_VIEWED", "Statement has been viewed and is immutable")
	}

	opening := decimal.Zero
	prior, err := s.statementRepo.FindByProviderAndPeriod(ctx, tenantID, provider.ID, period.Previous())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if prior != nil {
		opening = prior.ClosingBalance
	}

	periodStart, periodEnd := period.Bounds()
	transactions, err := s.transactionRepo.FindByProviderInRange(ctx, tenantID, provider.ID, periodStart, periodEnd)
	if err != nil {
		return err
	}
	payouts, err := s.payoutRepo.FindPaidByProviderInRange(ctx, tenantID, provider.ID, periodStart, periodEnd)
	if err != nil {
		return err
	}

	stmt, err := consignment.NewStatement(tenantID, provider.ID, provider.Name, period, opening, transactions, payouts)
	if err != nil {
		return err
	}

	if err := s.statementRepo.Replace(ctx, stmt); err != nil {
		return err
	}

	if s.eventBus != nil {
		for _, event := range stmt.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, event)
		}
		stmt.ClearDomainEvents()
	}
	return nil
}
