package consignment

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// PayoutService handles payout batch business operations.
//
// Generating a payout is a read-only preview and safe to repeat; creating
// one persists an immutable snapshot of the selected transactions. Marking
// a batch paid settles exactly that snapshot, never "whatever is unpaid
// at the time".
type PayoutService struct {
	payoutRepo      consignment.PayoutRepository
	transactionRepo consignment.TransactionRepository
	providerRepo    consignment.ProviderRepository
	txManager       shared.TransactionManager
	eventBus        shared.EventBus
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	payoutRepo consignment.PayoutRepository,
	transactionRepo consignment.TransactionRepository,
	providerRepo consignment.ProviderRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventBus,
) *PayoutService {
	return &PayoutService{
		payoutRepo:      payoutRepo,
		transactionRepo: transactionRepo,
		providerRepo:    providerRepo,
		txManager:       txManager,
		eventBus:        eventBus,
	}
}

// Preview builds a read-only payout report: the unpaid, un-batched
// transactions for the provider in [periodStart, periodEnd) and their total.
// An empty range is a valid, empty report.
func (s *PayoutService) Preview(ctx context.Context, tenantID uuid.UUID, req PayoutPreviewRequest) (*PayoutPreviewResponse, error) {
	if _, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, req.ProviderID); err != nil {
		return nil, err
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	transactions, err := s.transactionRepo.FindUnpaidByProviderInRange(ctx, tenantID, req.ProviderID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	report := consignment.BuildPayoutReport(req.ProviderID, req.PeriodStart, req.PeriodEnd, transactions)

	items := make([]TransactionResponse, len(report.Transactions))
	for i, tx := range report.Transactions {
		items[i] = ToTransactionResponse(tx)
	}
	return &PayoutPreviewResponse{
		ProviderID:       report.ProviderID,
		PeriodStart:      report.PeriodStart,
		PeriodEnd:        report.PeriodEnd,
		TransactionCount: report.TransactionCount,
		TotalAmount:      report.TotalAmount,
		Transactions:     items,
	}, nil
}

// Create persists a pending payout batch for the provider's unpaid
// transactions in range. The transaction set and total are snapshotted;
// each selected transaction is stamped with the batch ID so it cannot
// enter another batch.
func (s *PayoutService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePayoutRequest) (*PayoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "create",
		telemetry.WithAttribute(telemetry.SpanAttrProviderID, req.ProviderID))
	defer span.End()

	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	transactions, err := s.transactionRepo.FindUnpaidByProviderInRange(ctx, tenantID, req.ProviderID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, shared.NewDomainError("EMPTY_PAYOUT", "No unpaid transactions in the period")
	}

	payout, err := consignment.NewPayout(tenantID, provider.ID, provider.Name, req.PeriodStart, req.PeriodEnd, transactions)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		payout.SetCreatedBy(*req.CreatedBy)
	}

	for _, tx := range transactions {
		if err := tx.AssignToPayout(payout.ID); err != nil {
			return nil, err
		}
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.payoutRepo.Save(ctx, payout); err != nil {
			return err
		}
		return s.transactionRepo.SaveAll(ctx, transactions)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPayoutID, payout.ID,
		telemetry.SpanAttrAmount, payout.TotalAmount.String(),
		"transaction_count", len(transactions),
	)

	s.publishEvents(ctx, payout)

	response := ToPayoutResponse(payout)
	return &response, nil
}

// GetByID retrieves a payout by ID
func (s *PayoutService) GetByID(ctx context.Context, tenantID, payoutID uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}

	response := ToPayoutResponse(payout)
	return &response, nil
}

// List retrieves payouts with filtering and pagination
func (s *PayoutService) List(ctx context.Context, tenantID uuid.UUID, filter PayoutListFilter) ([]PayoutResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	payouts, err := s.payoutRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.payoutRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPayoutResponses(payouts), total, nil
}

// MarkAsPaid settles a pending payout batch: the payout flips to Paid and
// every transaction in its snapshot is marked paid out with the payment
// method and date.
func (s *PayoutService) MarkAsPaid(ctx context.Context, tenantID, payoutID uuid.UUID, req MarkPayoutPaidRequest) (*PayoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "mark_paid",
		telemetry.WithAttribute(telemetry.SpanAttrPayoutID, payoutID))
	defer span.End()

	payout, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}

	if err := payout.MarkAsPaid(req.Method, req.Notes); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByPayout(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if payout.PaidAt != nil {
		paidAt = *payout.PaidAt
	}
	for _, tx := range transactions {
		if err := tx.MarkPaidOut(payout.ID, req.Method, req.Notes, paidAt); err != nil {
			return nil, err
		}
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.payoutRepo.Save(ctx, payout); err != nil {
			return err
		}
		return s.transactionRepo.SaveAll(ctx, transactions)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "payout_settled",
		telemetry.SpanAttrPayoutStatus, string(payout.Status),
		"transaction_count", len(transactions),
	)

	s.publishEvents(ctx, payout)

	response := ToPayoutResponse(payout)
	return &response, nil
}

// Cancel cancels a pending payout batch and releases its transactions back
// to the unpaid pool
func (s *PayoutService) Cancel(ctx context.Context, tenantID, payoutID uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}

	if err := payout.Cancel(); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByPayout(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	for _, tx := range transactions {
		if err := tx.ReleaseFromPayout(); err != nil {
			return nil, err
		}
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.payoutRepo.Save(ctx, payout); err != nil {
			return err
		}
		return s.transactionRepo.SaveAll(ctx, transactions)
	})
	if err != nil {
		return nil, err
	}

	response := ToPayoutResponse(payout)
	return &response, nil
}

func (s *PayoutService) publishEvents(ctx context.Context, payout *consignment.Payout) {
	if s.eventBus == nil {
		return
	}
	for _, event := range payout.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	payout.ClearDomainEvents()
}
