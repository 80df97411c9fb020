package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringList stores a string slice as a JSONB column
type StringList []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	return json.Unmarshal(bytes, l)
}

// ItemModel is the persistence model for the Item aggregate.
type ItemModel struct {
	TenantAggregateModel
	SKU         string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_item_tenant_sku,priority:2"`
	Name        string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Category    string               `gorm:"type:varchar(100);index"`
	Price       decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	Status      inventory.ItemStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	ProviderID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	PhotoURLs   StringList           `gorm:"type:jsonb;not null;default:'[]'"`
	ListedAt    time.Time            `gorm:"not null;index"`
	SoldAt      *time.Time
	RemovedAt   *time.Time
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		SKU:                 m.SKU,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		Price:               m.Price,
		Status:              m.Status,
		ProviderID:          m.ProviderID,
		PhotoURLs:           m.PhotoURLs,
		ListedAt:            m.ListedAt,
		SoldAt:              m.SoldAt,
		RemovedAt:           m.RemovedAt,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *inventory.Item) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.SKU = i.SKU
	m.Name = i.Name
	m.Description = i.Description
	m.Category = i.Category
	m.Price = i.Price
	m.Status = i.Status
	m.ProviderID = i.ProviderID
	m.PhotoURLs = StringList(i.PhotoURLs)
	m.ListedAt = i.ListedAt
	m.SoldAt = i.SoldAt
	m.RemovedAt = i.RemovedAt
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *inventory.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
