package consignment

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProviderRequest represents a request to create a new provider
type CreateProviderRequest struct {
	Code              string          `json:"code" binding:"required,min=1,max=50"`
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	ContactName       string          `json:"contact_name" binding:"max=200"`
	Email             string          `json:"email" binding:"omitempty,email,max=200"`
	Phone             string          `json:"phone" binding:"max=50"`
	CommissionRate    decimal.Decimal `json:"commission_rate" binding:"required"`
	PaymentPreference string          `json:"payment_preference"`
	Notes             string          `json:"notes" binding:"max=2000"`
	SelfRegistered    bool            `json:"self_registered"`
	CreatedBy         *uuid.UUID      `json:"-"`
}

// UpdateProviderRequest represents a request to update a provider
type UpdateProviderRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName       *string          `json:"contact_name" binding:"omitempty,max=200"`
	Email             *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone             *string          `json:"phone" binding:"omitempty,max=50"`
	CommissionRate    *decimal.Decimal `json:"commission_rate"`
	PaymentPreference *string          `json:"payment_preference"`
	Notes             *string          `json:"notes" binding:"omitempty,max=2000"`
}

// ProviderListFilter represents filtering options for provider lists
type ProviderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ProviderResponse represents a provider in API responses
type ProviderResponse struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	ContactName       string          `json:"contact_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	Status            string          `json:"status"`
	PaymentPreference string          `json:"payment_preference"`
	Notes             string          `json:"notes"`
	ApprovedAt        *time.Time      `json:"approved_at"`
	DeactivatedAt     *time.Time      `json:"deactivated_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToProviderResponse converts a domain provider to a response
func ToProviderResponse(p *consignment.Provider) ProviderResponse {
	return ProviderResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		ContactName:       p.ContactName,
		Email:             p.Email,
		Phone:             p.Phone,
		CommissionRate:    p.CommissionRate,
		Status:            p.Status.String(),
		PaymentPreference: string(p.PaymentPreference),
		Notes:             p.Notes,
		ApprovedAt:        p.ApprovedAt,
		DeactivatedAt:     p.DeactivatedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ToProviderResponses converts a slice of domain providers to responses
func ToProviderResponses(providers []consignment.Provider) []ProviderResponse {
	responses := make([]ProviderResponse, len(providers))
	for i := range providers {
		responses[i] = ToProviderResponse(&providers[i])
	}
	return responses
}

// RecordSaleRequest represents a POS sale of one item
type RecordSaleRequest struct {
	ItemID        uuid.UUID        `json:"item_id" binding:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price"` // defaults to the item's listed price
	PaymentMethod string           `json:"payment_method" binding:"max=50"`
	CreatedBy     *uuid.UUID       `json:"-"`
}

// VoidTransactionRequest represents a request to void a sale
type VoidTransactionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// TransactionListFilter represents filtering options for transaction lists
type TransactionListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	ProviderID *uuid.UUID `form:"provider_id"`
	Status     string     `form:"status"`
	Channel    string     `form:"channel"`
	Unpaid     *bool      `form:"unpaid"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// TransactionResponse represents a sale transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	ProviderID      uuid.UUID       `json:"provider_id"`
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	SplitPercentage decimal.Decimal `json:"split_percentage"`
	ProviderAmount  decimal.Decimal `json:"provider_amount"`
	ShopAmount      decimal.Decimal `json:"shop_amount"`
	SaleDate        time.Time       `json:"sale_date"`
	Channel         string          `json:"channel"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	ProviderPaidOut bool            `json:"provider_paid_out"`
	PaidOutAt       *time.Time      `json:"paid_out_at,omitempty"`
	PayoutID        *uuid.UUID      `json:"payout_id,omitempty"`
	SyncStatus      string          `json:"sync_status"`
	SyncError       string          `json:"sync_error,omitempty"`
	VoidedAt        *time.Time      `json:"voided_at,omitempty"`
	VoidReason      string          `json:"void_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain transaction to a response
func ToTransactionResponse(t *consignment.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ItemID:          t.ItemID,
		ItemName:        t.ItemName,
		ProviderID:      t.ProviderID,
		OrderID:         t.OrderID,
		SalePrice:       t.SalePrice,
		SplitPercentage: t.SplitPercentage,
		ProviderAmount:  t.ProviderAmount,
		ShopAmount:      t.ShopAmount,
		SaleDate:        t.SaleDate,
		Channel:         string(t.Channel),
		PaymentMethod:   t.PaymentMethod,
		Status:          string(t.Status),
		ProviderPaidOut: t.ProviderPaidOut,
		PaidOutAt:       t.PaidOutAt,
		PayoutID:        t.PayoutID,
		SyncStatus:      string(t.SyncStatus),
		SyncError:       t.SyncError,
		VoidedAt:        t.VoidedAt,
		VoidReason:      t.VoidReason,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions to responses
func ToTransactionResponses(txs []consignment.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// PayoutPreviewRequest represents a request to preview a payout batch.
// The period is end-exclusive: [period_start, period_end).
type PayoutPreviewRequest struct {
	ProviderID  uuid.UUID `json:"provider_id" binding:"required"`
	PeriodStart time.Time `json:"period_start" binding:"required" time_format:"2006-01-02"`
	PeriodEnd   time.Time `json:"period_end" binding:"required" time_format:"2006-01-02"`
}

// CreatePayoutRequest represents a request to create a payout batch.
// The period is end-exclusive: [period_start, period_end).
type CreatePayoutRequest struct {
	ProviderID  uuid.UUID  `json:"provider_id" binding:"required"`
	PeriodStart time.Time  `json:"period_start" binding:"required" time_format:"2006-01-02"`
	PeriodEnd   time.Time  `json:"period_end" binding:"required" time_format:"2006-01-02"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// MarkPayoutPaidRequest represents a request to settle a payout batch
type MarkPayoutPaidRequest struct {
	Method string `json:"method" binding:"required,max=50"`
	Notes  string `json:"notes" binding:"max=2000"`
}

// PayoutListFilter represents filtering options for payout lists
type PayoutListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	ProviderID *uuid.UUID `form:"provider_id"`
	Status     string     `form:"status"`
}

// PayoutPreviewResponse represents the read-only payout preview
type PayoutPreviewResponse struct {
	ProviderID       uuid.UUID             `json:"provider_id"`
	PeriodStart      time.Time             `json:"period_start"`
	PeriodEnd        time.Time             `json:"period_end"`
	TransactionCount int                   `json:"transaction_count"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	Transactions     []TransactionResponse `json:"transactions"`
}

// PayoutResponse represents a payout batch in API responses
type PayoutResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProviderID       uuid.UUID       `json:"provider_id"`
	ProviderName     string          `json:"provider_name"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	TransactionIDs   []uuid.UUID     `json:"transaction_ids"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	Method           string          `json:"method,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	SyncStatus       string          `json:"sync_status"`
	SyncError        string          `json:"sync_error,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToPayoutResponse converts a domain payout to a response
func ToPayoutResponse(p *consignment.Payout) PayoutResponse {
	return PayoutResponse{
		ID:               p.ID,
		ProviderID:       p.ProviderID,
		ProviderName:     p.ProviderName,
		PeriodStart:      p.PeriodStart,
		PeriodEnd:        p.PeriodEnd,
		TransactionIDs:   p.TransactionIDs,
		TransactionCount: p.TransactionCount,
		TotalAmount:      p.TotalAmount,
		Status:           string(p.Status),
		Method:           p.Method,
		Notes:            p.Notes,
		PaidAt:           p.PaidAt,
		CancelledAt:      p.CancelledAt,
		SyncStatus:       string(p.SyncStatus),
		SyncError:        p.SyncError,
		CreatedAt:        p.CreatedAt,
	}
}

// ToPayoutResponses converts a slice of domain payouts to responses
func ToPayoutResponses(payouts []consignment.Payout) []PayoutResponse {
	responses := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = ToPayoutResponse(&payouts[i])
	}
	return responses
}

// GenerateStatementsRequest represents an on-demand statement run
type GenerateStatementsRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// StatementListFilter represents filtering options for statement lists
type StatementListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	ProviderID *uuid.UUID `form:"provider_id"`
	Year       int        `form:"year"`
	Month      int        `form:"month"`
}

// StatementResponse represents a monthly statement in API responses
type StatementResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProviderID     uuid.UUID       `json:"provider_id"`
	ProviderName   string          `json:"provider_name"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	TotalPayouts   decimal.Decimal `json:"total_payouts"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	SaleCount      int             `json:"sale_count"`
	GeneratedAt    time.Time       `json:"generated_at"`
	Viewed         bool            `json:"viewed"`
	ViewedAt       *time.Time      `json:"viewed_at,omitempty"`
}

// ToStatementResponse converts a domain statement to a response
func ToStatementResponse(s *consignment.Statement) StatementResponse {
	return StatementResponse{
		ID:             s.ID,
		ProviderID:     s.ProviderID,
		ProviderName:   s.ProviderName,
		Year:           s.Year,
		Month:          int(s.Month),
		PeriodStart:    s.PeriodStart,
		PeriodEnd:      s.PeriodEnd,
		OpeningBalance: s.OpeningBalance,
		TotalSales:     s.TotalSales,
		TotalEarnings:  s.TotalEarnings,
		TotalPayouts:   s.TotalPayouts,
		ClosingBalance: s.ClosingBalance,
		SaleCount:      s.SaleCount,
		GeneratedAt:    s.GeneratedAt,
		Viewed:         s.Viewed,
		ViewedAt:       s.ViewedAt,
	}
}

// ToStatementResponses converts a slice of domain statements to responses
func ToStatementResponses(stmts []consignment.Statement) []StatementResponse {
	responses := make([]StatementResponse, len(stmts))
	for i := range stmts {
		responses[i] = ToStatementResponse(&stmts[i])
	}
	return responses
}

// StatementRunResult reports one monthly statement generation run. Failures
// are isolated per provider so one bad provider never blocks the rest.
type StatementRunResult struct {
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	Generated int                 `json:"generated"`
	Skipped   int                 `json:"skipped"`
	Failures  []StatementRunError `json:"failures,omitempty"`
}

// StatementRunError records one provider's failure during a statement run
type StatementRunError struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Error      string    `json:"error"`
}
