package integration

import (
	"context"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for the accounting port
var (
	// ErrAccountingNotConfigured indicates no accounting connection exists for the tenant
	ErrAccountingNotConfigured = shared.NewDomainError("ACCOUNTING_NOT_CONFIGURED", "Accounting integration is not configured")
)

// TokenSource supplies the current bearer token for the accounting API.
// Token refresh is handled outside this context; implementations return
// a token valid at call time.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SalesReceipt is a completed sale posted to the accounting system
type SalesReceipt struct {
	TenantID      uuid.UUID
	TransactionID uuid.UUID
	ItemName      string
	SalePrice     decimal.Decimal
	SaleDate      time.Time
	Channel       string
	PaymentMethod string
}

// PayoutPayment is a settled payout batch posted to the accounting system
// as a payment against the provider's vendor account
type PayoutPayment struct {
	TenantID     uuid.UUID
	PayoutID     uuid.UUID
	ProviderID   uuid.UUID
	ProviderName string
	Amount       decimal.Decimal
	Method       string
	PaidAt       time.Time
}

// Customer is a provider record mirrored into the accounting system
type Customer struct {
	TenantID   uuid.UUID
	ProviderID uuid.UUID
	Name       string
	Email      string
}

// AccountingGateway is the port to the external accounting system. Each
// method returns the external record's identifier on success. Calls are
// single-shot; callers record failure on the entity and rely on manual
// re-sync rather than retrying.
type AccountingGateway interface {
	// CreateSalesReceipt posts a completed sale as a sales receipt
	CreateSalesReceipt(ctx context.Context, receipt SalesReceipt) (string, error)

	// CreatePayment posts a settled payout as a payment
	CreatePayment(ctx context.Context, payment PayoutPayment) (string, error)

	// CreateCustomer creates or finds the customer record for a provider
	CreateCustomer(ctx context.Context, customer Customer) (string, error)
}
