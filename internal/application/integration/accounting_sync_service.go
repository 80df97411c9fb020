package integration

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/integration"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountingSyncService pushes completed sales and settled payouts to the
// accounting system through the AccountingGateway port.
//
// A failed sync is recorded on the entity and left alone; there is no
// automatic retry. Calling the sync operation again performs the manual
// re-sync.
type AccountingSyncService struct {
	transactionRepo consignment.TransactionRepository
	payoutRepo      consignment.PayoutRepository
	providerRepo    consignment.ProviderRepository
	gateway         integration.AccountingGateway
}

// NewAccountingSyncService creates a new AccountingSyncService
func NewAccountingSyncService(
	transactionRepo consignment.TransactionRepository,
	payoutRepo consignment.PayoutRepository,
	providerRepo consignment.ProviderRepository,
	gateway integration.AccountingGateway,
) *AccountingSyncService {
	return &AccountingSyncService{
		transactionRepo: transactionRepo,
		payoutRepo:      payoutRepo,
		providerRepo:    providerRepo,
		gateway:         gateway,
	}
}

// SyncTransaction posts a completed sale to the accounting system as a
// sales receipt. Already-synced transactions are a no-op; failed ones are
// retried, which is the manual re-sync path.
func (s *AccountingSyncService) SyncTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (*SyncResultResponse, error) {
	if s.gateway == nil {
		return nil, integration.ErrAccountingNotConfigured
	}

	tx, err := s.transactionRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status == consignment.TransactionStatusVoided {
		return nil, shared.NewDomainError("CANNOT_SYNC_VOIDED", "Voided transactions are not synced to accounting")
	}
	if tx.SyncStatus == consignment.SyncStatusSynced {
		return toTransactionSyncResponse(tx, ""), nil
	}

	receipt := integration.SalesReceipt{
		TenantID:      tenantID,
		TransactionID: tx.ID,
		ItemName:      tx.ItemName,
		SalePrice:     tx.SalePrice,
		SaleDate:      tx.SaleDate,
		Channel:       string(tx.Channel),
		PaymentMethod: tx.PaymentMethod,
	}

	externalID, syncErr := s.gateway.CreateSalesReceipt(ctx, receipt)
	if syncErr != nil {
		tx.MarkSyncFailed(syncErr.Error())
		if err := s.transactionRepo.Save(ctx, tx); err != nil {
			return nil, err
		}
		logger.L(ctx).Warn("transaction sync failed",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(syncErr),
		)
		return toTransactionSyncResponse(tx, ""), nil
	}

	tx.MarkSynced()
	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("transaction synced to accounting",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("external_id", externalID),
	)
	return toTransactionSyncResponse(tx, externalID), nil
}

// SyncPayout posts a settled payout batch to the accounting system as a
// payment against the provider. Only paid payouts sync.
func (s *AccountingSyncService) SyncPayout(ctx context.Context, tenantID, payoutID uuid.UUID) (*SyncResultResponse, error) {
	if s.gateway == nil {
		return nil, integration.ErrAccountingNotConfigured
	}

	payout, err := s.payoutRepo.FindByIDForTenant(ctx, tenantID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != consignment.PayoutStatusPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Only paid payouts are synced to accounting")
	}
	if payout.SyncStatus == consignment.SyncStatusSynced {
		return toPayoutSyncResponse(payout, ""), nil
	}

	payment := integration.PayoutPayment{
		TenantID:     tenantID,
		PayoutID:     payout.ID,
		ProviderID:   payout.ProviderID,
		ProviderName: payout.ProviderName,
		Amount:       payout.TotalAmount,
		Method:       payout.Method,
	}
	if payout.PaidAt != nil {
		payment.PaidAt = *payout.PaidAt
	}

	externalID, syncErr := s.gateway.CreatePayment(ctx, payment)
	if syncErr != nil {
		payout.MarkSyncFailed(syncErr.Error())
		if err := s.payoutRepo.Save(ctx, payout); err != nil {
			return nil, err
		}
		logger.L(ctx).Warn("payout sync failed",
			zap.String("payout_id", payout.ID.String()),
			zap.Error(syncErr),
		)
		return toPayoutSyncResponse(payout, ""), nil
	}

	payout.MarkSynced()
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("payout synced to accounting",
		zap.String("payout_id", payout.ID.String()),
		zap.String("external_id", externalID),
	)
	return toPayoutSyncResponse(payout, externalID), nil
}

// EnsureCustomer creates or finds the accounting customer record for a
// provider and returns its external identifier
func (s *AccountingSyncService) EnsureCustomer(ctx context.Context, tenantID, providerID uuid.UUID) (string, error) {
	if s.gateway == nil {
		return "", integration.ErrAccountingNotConfigured
	}

	provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, providerID)
	if err != nil {
		return "", err
	}

	return s.gateway.CreateCustomer(ctx, integration.Customer{
		TenantID:   tenantID,
		ProviderID: provider.ID,
		Name:       provider.Name,
		Email:      provider.Email,
	})
}
