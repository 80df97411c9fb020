package consignment

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProviderRepository defines the interface for provider persistence
type ProviderRepository interface {
	// FindByIDForTenant finds a provider by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Provider, error)

	// FindByCode finds a provider by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Provider, error)

	// FindAllForTenant finds providers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Provider, error)

	// FindByStatus finds providers with a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ProviderStatus) ([]Provider, error)

	// Save creates or updates a provider
	Save(ctx context.Context, provider *Provider) error

	// CountForTenant counts providers for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a provider code exists within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// ExistsActive checks if a provider exists and is currently active
	ExistsActive(ctx context.Context, tenantID, providerID uuid.UUID) (bool, error)
}

// TransactionRepository defines the interface for sale transaction persistence
type TransactionRepository interface {
	// FindByIDForTenant finds a transaction by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)

	// FindByIDs finds transactions by ID set within a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Transaction, error)

	// FindAllForTenant finds transactions for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// FindUnpaidByProviderInRange finds settleable (completed, unpaid,
	// un-batched) transactions for a provider with sale dates in
	// [periodStart, periodEnd)
	FindUnpaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*Transaction, error)

	// FindByProviderInRange finds completed transactions for a provider with
	// sale dates in [periodStart, periodEnd), regardless of payout state
	FindByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*Transaction, error)

	// FindInRange finds completed transactions for a tenant with sale dates
	// in [periodStart, periodEnd)
	FindInRange(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) ([]*Transaction, error)

	// FindByPayout finds the transactions stamped with a payout batch
	FindByPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]*Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// SaveAll creates or updates a set of transactions atomically
	SaveAll(ctx context.Context, txs []*Transaction) error

	// CountForTenant counts transactions for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// PayoutRepository defines the interface for payout batch persistence
type PayoutRepository interface {
	// FindByIDForTenant finds a payout by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payout, error)

	// FindAllForTenant finds payouts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payout, error)

	// FindByProvider finds payouts for a provider
	FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]Payout, error)

	// FindPaidByProviderInRange finds paid payouts for a provider with paid
	// dates in [periodStart, periodEnd)
	FindPaidByProviderInRange(ctx context.Context, tenantID, providerID uuid.UUID, periodStart, periodEnd time.Time) ([]*Payout, error)

	// Save creates or updates a payout
	Save(ctx context.Context, payout *Payout) error

	// CountForTenant counts payouts for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StatementRepository defines the interface for statement persistence
type StatementRepository interface {
	// FindByIDForTenant finds a statement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Statement, error)

	// FindByProviderAndPeriod finds the statement for a provider and month
	FindByProviderAndPeriod(ctx context.Context, tenantID, providerID uuid.UUID, period StatementPeriod) (*Statement, error)

	// FindByProvider finds statements for a provider, newest period first
	FindByProvider(ctx context.Context, tenantID, providerID uuid.UUID, filter shared.Filter) ([]Statement, error)

	// FindAllForTenant finds statements for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Statement, error)

	// Save creates or updates a statement
	Save(ctx context.Context, stmt *Statement) error

	// Replace deletes any existing statement for the same provider and
	// period and saves the new one atomically
	Replace(ctx context.Context, stmt *Statement) error

	// CountForTenant counts statements for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
