package consignment

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionService handles sale transaction business operations
type TransactionService struct {
	transactionRepo consignment.TransactionRepository
	providerRepo    consignment.ProviderRepository
	itemRepo        inventory.ItemRepository
	txManager       shared.TransactionManager
	eventBus        shared.EventBus
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo consignment.TransactionRepository,
	providerRepo consignment.ProviderRepository,
	itemRepo inventory.ItemRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventBus,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		providerRepo:    providerRepo,
		itemRepo:        itemRepo,
		txManager:       txManager,
		eventBus:        eventBus,
	}
}

// RecordSale records a POS sale of one item. The item transitions
// Available -> Sold via a conditional update, so two clerks selling the
// same item at once cannot both succeed; the loser gets a conflict.
func (s *TransactionService) RecordSale(ctx context.Context, tenantID uuid.UUID, req RecordSaleRequest) (*TransactionResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable() {
		return nil, inventory.ErrItemNotAvailable
	}

	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, item.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.IsActive() {
		return nil, shared.NewDomainError("PROVIDER_NOT_ACTIVE", "Item's provider is not active")
	}

	salePrice := item.Price
	if req.SalePrice != nil {
		salePrice = *req.SalePrice
	}

	transaction, err := consignment.NewTransaction(
		tenantID, item.ID, provider.ID, item.Name,
		salePrice, provider.CommissionRate, consignment.SaleChannelPOS,
	)
	if err != nil {
		return nil, err
	}
	if req.PaymentMethod != "" {
		transaction.SetPaymentMethod(req.PaymentMethod)
	}
	if req.CreatedBy != nil {
		transaction.SetCreatedBy(*req.CreatedBy)
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.MarkSold(ctx, tenantID, item.ID); err != nil {
			return err
		}
		return s.transactionRepo.Save(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, transaction.GetDomainEvents())
	transaction.ClearDomainEvents()

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sale_date"
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
	if filter.Channel != "" {
		domainFilter.Filters["channel"] = filter.Channel
	}
	if filter.Unpaid != nil {
		domainFilter.Filters["unpaid"] = *filter.Unpaid
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = *filter.DateTo
	}

	transactions, err := s.transactionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(transactions), total, nil
}

// Void voids a sale and reopens the item. Paid-out or batched transactions
// cannot be voided.
func (s *TransactionService) Void(ctx context.Context, tenantID, transactionID uuid.UUID, req VoidTransactionRequest) (*TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := transaction.Void(req.Reason); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, transaction.ItemID)
	if err != nil {
		return nil, err
	}
	if err := item.Reopen(); err != nil {
		return nil, err
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.Save(ctx, transaction); err != nil {
			return err
		}
		return s.itemRepo.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, transaction.GetDomainEvents())
	transaction.ClearDomainEvents()

	response := ToTransactionResponse(transaction)
	return &response, nil
}

func (s *TransactionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, event := range events {
		_ = s.eventBus.Publish(ctx, event)
	}
}
