package consignment

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProviderRepository is a mock implementation of ProviderRepository
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
	return args.Get(0).([]consignment.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status consignment.ProviderStatus) ([]consignment.Provider, error) {
	args := m.Called(ctx, tenantID, status)
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

// MockTransactionRepository is a mock implementation of TransactionRepository
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
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindUnpaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, periodStart, periodEnd)
	return args.Get(0).([]*consignment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]*consignment.Transaction, error) {
	args := m.Called(ctx, tenantID, payoutID)
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

// MockPayoutRepository is a mock implementation of PayoutRepository
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
	return args.Get(0).([]consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]consignment.Payout, error) {
	args := m.Called(ctx, tenantID, providerID, filter)
	return args.Get(0).([]consignment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindPaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*consignment.Payout, error) {
	args := m.Called(ctx, tenantID, providerID, periodStart, periodEnd)
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

// MockStatementRepository is a mock implementation of StatementRepository
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Statement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindByProviderAndPeriod(ctx context.Context, tenantID, providerID uuid.UUID, period consignment.StatementPeriod) (*consignment.Statement, error) {
	args := m.Called(ctx, tenantID, providerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]consignment.Statement, error) {
	args := m.Called(ctx, tenantID, providerID, filter)
	return args.Get(0).([]consignment.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consignment.Statement, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]consignment.Statement), args.Error(1)
}

func (m *MockStatementRepository) Save(ctx context.Context, stmt *consignment.Statement) error {
	args := m.Called(ctx, stmt)
	return args.Error(0)
}

func (m *MockStatementRepository) Replace(ctx context.Context, stmt *consignment.Statement) error {
	args := m.Called(ctx, stmt)
	return args.Error(0)
}

func (m *MockStatementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Item, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*inventory.Item, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	args := m.Called(ctx, tenantID, providerID, filter)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) MarkSold(ctx context.Context, tenantID, itemID uuid.UUID) error {
	args := m.Called(ctx, tenantID, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}
