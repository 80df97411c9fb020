package integration

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	domainintegration "github.com/consignmentgenie/backend/internal/domain/integration"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountingGateway is a mock implementation of integration.AccountingGateway
type MockAccountingGateway struct {
	mock.Mock
}

func (m *MockAccountingGateway) CreateSalesReceipt(ctx context.Context, receipt domainintegration.SalesReceipt) (string, error) {
	args := m.Called(ctx, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockAccountingGateway) CreatePayment(ctx context.Context, payment domainintegration.PayoutPayment) (string, error) {
	args := m.Called(ctx, payment)
	return args.String(0), args.Error(1)
}

func (m *MockAccountingGateway) CreateCustomer(ctx context.Context, customer domainintegration.Customer) (string, error) {
	args := m.Called(ctx, customer)
	return args.String(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of consignment.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindUnpaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *consignment.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveAll(ctx context.Context, txs []*consignment.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPayoutRepository is a mock implementation of consignment.PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Payout, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Payout, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]consignment.Payout, error) {
	args := m.Called(ctx, tenantID, providerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindPaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Payout, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) Save(ctx context.Context, payout *consignment.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProviderRepository is a mock implementation of consignment.ProviderRepository
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Provider, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*consignment.Provider, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Provider, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status consignment.ProviderStatus) ([]consignment.Provider, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Provider), args.Error(1)
}

func (m *MockProviderRepository) Save(ctx context.Context, provider *consignment.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProviderRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepository) ExistsActive(ctx context.Context, tenantID, providerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, providerID)
	return args.Bool(0), args.Error(1)
}
