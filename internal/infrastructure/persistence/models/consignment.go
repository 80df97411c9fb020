package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUIDList stores a uuid slice as a JSONB column
type UUIDList []uuid.UUID

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for UUIDList: %T", value)
	}
	return json.Unmarshal(bytes, l)
}

// ProviderModel is the persistence model for the Provider aggregate.
type ProviderModel struct {
	TenantAggregateModel
	Code              string                        `gorm:"type:varchar(50);not null;uniqueIndex:idx_provider_tenant_code,priority:2"`
	Name              string                        `gorm:"type:varchar(200);not null"`
	ContactName       string                        `gorm:"type:varchar(100)"`
	Email             string                        `gorm:"type:varchar(200);index"`
	Phone             string                        `gorm:"type:varchar(50)"`
	CommissionRate    decimal.Decimal               `gorm:"type:decimal(5,2);not null"`
	Status            consignment.ProviderStatus    `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	PaymentPreference consignment.PaymentPreference `gorm:"type:varchar(20);not null;default:'NONE'"`
	Notes             string                        `gorm:"type:text"`
	ApprovedAt        *time.Time
	DeactivatedAt     *time.Time
}

// TableName returns the table name for GORM
func (ProviderModel) TableName() string {
	return "providers"
}

// ToDomain converts the persistence model to a domain Provider
func (m *ProviderModel) ToDomain() *consignment.Provider {
	return &consignment.Provider{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		ContactName:         m.ContactName,
		Email:               m.Email,
		Phone:               m.Phone,
		CommissionRate:      m.CommissionRate,
		Status:              m.Status,
		PaymentPreference:   m.PaymentPreference,
		Notes:               m.Notes,
		ApprovedAt:          m.ApprovedAt,
		DeactivatedAt:       m.DeactivatedAt,
	}
}

// FromDomain populates the persistence model from a domain Provider
func (m *ProviderModel) FromDomain(p *consignment.Provider) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.ContactName = p.ContactName
	m.Email = p.Email
	m.Phone = p.Phone
	m.CommissionRate = p.CommissionRate
	m.Status = p.Status
	m.PaymentPreference = p.PaymentPreference
	m.Notes = p.Notes
	m.ApprovedAt = p.ApprovedAt
	m.DeactivatedAt = p.DeactivatedAt
}

// ProviderModelFromDomain creates a new persistence model from a domain Provider
func ProviderModelFromDomain(p *consignment.Provider) *ProviderModel {
	m := &ProviderModel{}
	m.FromDomain(p)
	return m
}

// TransactionModel is the persistence model for the Transaction aggregate.
type TransactionModel struct {
	TenantAggregateModel
	ItemID          uuid.UUID                     `gorm:"type:uuid;not null;index"`
	ItemName        string                        `gorm:"type:varchar(200);not null"`
	ProviderID      uuid.UUID                     `gorm:"type:uuid;not null;index"`
	OrderID         *uuid.UUID                    `gorm:"type:uuid;index"`
	SalePrice       decimal.Decimal               `gorm:"type:decimal(12,2);not null"`
	SplitPercentage decimal.Decimal               `gorm:"type:decimal(5,2);not null"`
	ProviderAmount  decimal.Decimal               `gorm:"type:decimal(12,2);not null"`
	ShopAmount      decimal.Decimal               `gorm:"type:decimal(12,2);not null"`
	SaleDate        time.Time                     `gorm:"not null;index"`
	Channel         consignment.SaleChannel       `gorm:"type:varchar(20);not null"`
	PaymentMethod   string                        `gorm:"type:varchar(50)"`
	Status          consignment.TransactionStatus `gorm:"type:varchar(20);not null;default:'COMPLETED';index"`
	ProviderPaidOut bool                          `gorm:"not null;default:false;index"`
	PaidOutAt       *time.Time
	PayoutID        *uuid.UUID             `gorm:"type:uuid;index"`
	PayoutMethod    string                 `gorm:"type:varchar(50)"`
	PayoutNotes     string                 `gorm:"type:text"`
	SyncStatus      consignment.SyncStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SyncError       string                 `gorm:"type:text"`
	SyncedAt        *time.Time
	VoidedAt        *time.Time
	VoidReason      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *consignment.Transaction {
	return &consignment.Transaction{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		ItemID:              m.ItemID,
		ItemName:            m.ItemName,
		ProviderID:          m.ProviderID,
		OrderID:             m.OrderID,
		SalePrice:           m.SalePrice,
		SplitPercentage:     m.SplitPercentage,
		ProviderAmount:      m.ProviderAmount,
		ShopAmount:          m.ShopAmount,
		SaleDate:            m.SaleDate,
		Channel:             m.Channel,
		PaymentMethod:       m.PaymentMethod,
		Status:              m.Status,
		ProviderPaidOut:     m.ProviderPaidOut,
		PaidOutAt:           m.PaidOutAt,
		PayoutID:            m.PayoutID,
		PayoutMethod:        m.PayoutMethod,
		PayoutNotes:         m.PayoutNotes,
		SyncStatus:          m.SyncStatus,
		SyncError:           m.SyncError,
		SyncedAt:            m.SyncedAt,
		VoidedAt:            m.VoidedAt,
		VoidReason:          m.VoidReason,
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *TransactionModel) FromDomain(t *consignment.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.ItemID = t.ItemID
	m.ItemName = t.ItemName
	m.ProviderID = t.ProviderID
	m.OrderID = t.OrderID
	m.SalePrice = t.SalePrice
	m.SplitPercentage = t.SplitPercentage
	m.ProviderAmount = t.ProviderAmount
	m.ShopAmount = t.ShopAmount
	m.SaleDate = t.SaleDate
	m.Channel = t.Channel
	m.PaymentMethod = t.PaymentMethod
	m.Status = t.Status
	m.ProviderPaidOut = t.ProviderPaidOut
	m.PaidOutAt = t.PaidOutAt
	m.PayoutID = t.PayoutID
	m.PayoutMethod = t.PayoutMethod
	m.PayoutNotes = t.PayoutNotes
	m.SyncStatus = t.SyncStatus
	m.SyncError = t.SyncError
	m.SyncedAt = t.SyncedAt
	m.VoidedAt = t.VoidedAt
	m.VoidReason = t.VoidReason
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction
func TransactionModelFromDomain(t *consignment.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// PayoutModel is the persistence model for the Payout aggregate. The
// transaction id set is stored as JSONB because it is an immutable snapshot,
// never queried relationally; the payout stamp on each transaction row
// carries the relational link.
type PayoutModel struct {
	TenantAggregateModel
	ProviderID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProviderName     string                   `gorm:"type:varchar(200);not null"`
	PeriodStart      time.Time                `gorm:"not null"`
	PeriodEnd        time.Time                `gorm:"not null"`
	TransactionIDs   UUIDList                 `gorm:"type:jsonb;not null;default:'[]'"`
	TransactionCount int                      `gorm:"not null"`
	TotalAmount      decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	Status           consignment.PayoutStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Method           string                   `gorm:"type:varchar(50)"`
	Notes            string                   `gorm:"type:text"`
	PaidAt           *time.Time               `gorm:"index"`
	CancelledAt      *time.Time
	SyncStatus       consignment.SyncStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SyncError        string                 `gorm:"type:text"`
	SyncedAt         *time.Time
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout
func (m *PayoutModel) ToDomain() *consignment.Payout {
	return &consignment.Payout{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		ProviderID:          m.ProviderID,
		ProviderName:        m.ProviderName,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		TransactionIDs:      m.TransactionIDs,
		TransactionCount:    m.TransactionCount,
		TotalAmount:         m.TotalAmount,
		Status:              m.Status,
		Method:              m.Method,
		Notes:               m.Notes,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		SyncStatus:          m.SyncStatus,
		SyncError:           m.SyncError,
		SyncedAt:            m.SyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Payout
func (m *PayoutModel) FromDomain(p *consignment.Payout) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ProviderID = p.ProviderID
	m.ProviderName = p.ProviderName
	m.PeriodStart = p.PeriodStart
	m.PeriodEnd = p.PeriodEnd
	m.TransactionIDs = UUIDList(p.TransactionIDs)
	m.TransactionCount = p.TransactionCount
	m.TotalAmount = p.TotalAmount
	m.Status = p.Status
	m.Method = p.Method
	m.Notes = p.Notes
	m.PaidAt = p.PaidAt
	m.CancelledAt = p.CancelledAt
	m.SyncStatus = p.SyncStatus
	m.SyncError = p.SyncError
	m.SyncedAt = p.SyncedAt
}

// PayoutModelFromDomain creates a new persistence model from a domain Payout
func PayoutModelFromDomain(p *consignment.Payout) *PayoutModel {
	m := &PayoutModel{}
	m.FromDomain(p)
	return m
}

// StatementModel is the persistence model for the Statement aggregate.
type StatementModel struct {
	TenantAggregateModel
	ProviderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_statement_provider_period,priority:2"`
	ProviderName   string          `gorm:"type:varchar(200);not null"`
	Year           int             `gorm:"not null;uniqueIndex:idx_statement_provider_period,priority:3"`
	Month          int             `gorm:"not null;uniqueIndex:idx_statement_provider_period,priority:4"`
	PeriodStart    time.Time       `gorm:"not null"`
	PeriodEnd      time.Time       `gorm:"not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalSales     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalEarnings  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPayouts   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleCount      int             `gorm:"not null"`
	GeneratedAt    time.Time       `gorm:"not null"`
	Viewed         bool            `gorm:"not null;default:false"`
	ViewedAt       *time.Time
}

// TableName returns the table name for GORM
func (StatementModel) TableName() string {
	return "statements"
}

// ToDomain converts the persistence model to a domain Statement
func (m *StatementModel) ToDomain() *consignment.Statement {
	return &consignment.Statement{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		ProviderID:          m.ProviderID,
		ProviderName:        m.ProviderName,
		Year:                m.Year,
		Month:               time.Month(m.Month),
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		OpeningBalance:      m.OpeningBalance,
		TotalSales:          m.TotalSales,
		TotalEarnings:       m.TotalEarnings,
		TotalPayouts:        m.TotalPayouts,
		ClosingBalance:      m.ClosingBalance,
		SaleCount:           m.SaleCount,
		GeneratedAt:         m.GeneratedAt,
		Viewed:              m.Viewed,
		ViewedAt:            m.ViewedAt,
	}
}

// FromDomain populates the persistence model from a domain Statement
func (m *StatementModel) FromDomain(s *consignment.Statement) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ProviderID = s.ProviderID
	m.ProviderName = s.ProviderName
	m.Year = s.Year
	m.Month = int(s.Month)
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.OpeningBalance = s.OpeningBalance
	m.TotalSales = s.TotalSales
	m.TotalEarnings = s.TotalEarnings
	m.TotalPayouts = s.TotalPayouts
	m.ClosingBalance = s.ClosingBalance
	m.SaleCount = s.SaleCount
	m.GeneratedAt = s.GeneratedAt
	m.Viewed = s.Viewed
	m.ViewedAt = s.ViewedAt
}

// StatementModelFromDomain creates a new persistence model from a domain Statement
func StatementModelFromDomain(s *consignment.Statement) *StatementModel {
	m := &StatementModel{}
	m.FromDomain(s)
	return m
}
