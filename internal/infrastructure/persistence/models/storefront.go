package models

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the ShoppingCart aggregate.
// One-cart-per-session and one-cart-per-shopper are enforced by partial
// unique indexes in the migrations; empty session ids would collide in a
// plain composite unique index.
type CartModel struct {
	TenantAggregateModel
	SessionID string     `gorm:"type:varchar(100);index"`
	ShopperID *uuid.UUID `gorm:"type:uuid;index"`
	ExpiresAt *time.Time `gorm:"index"`

	Items []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a reserved cart line. The
// unique index on (tenant_id, item_id) is the reservation: two carts can
// never hold the same item at the same time.
type CartItemModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_reservation,priority:1"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_reservation,priority:2"`
	ItemName string          `gorm:"type:varchar(200);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AddedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain ShoppingCart
func (m *CartModel) ToDomain() *storefront.ShoppingCart {
	items := make([]storefront.CartItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = storefront.CartItem{
			ID:       it.ID,
			CartID:   it.CartID,
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			Price:    it.Price,
			AddedAt:  it.AddedAt,
		}
	}
	return &storefront.ShoppingCart{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		SessionID:           m.SessionID,
		ShopperID:           m.ShopperID,
		Items:               items,
		ExpiresAt:           m.ExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain ShoppingCart
func (m *CartModel) FromDomain(c *storefront.ShoppingCart) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.SessionID = c.SessionID
	m.ShopperID = c.ShopperID
	m.ExpiresAt = c.ExpiresAt
	m.Items = make([]CartItemModel, len(c.Items))
	for i, it := range c.Items {
		m.Items[i] = CartItemModel{
			ID:       it.ID,
			CartID:   c.ID,
			TenantID: c.TenantID,
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			Price:    it.Price,
			AddedAt:  it.AddedAt,
		}
	}
}

// CartModelFromDomain creates a new persistence model from a domain ShoppingCart
func CartModelFromDomain(c *storefront.ShoppingCart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber     string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	ShopperID       *uuid.UUID             `gorm:"type:uuid;index"`
	CustomerName    string                 `gorm:"type:varchar(200)"`
	CustomerEmail   string                 `gorm:"type:varchar(200);not null;index"`
	CustomerPhone   string                 `gorm:"type:varchar(50)"`
	ShippingAddress string                 `gorm:"type:text"`
	Subtotal        decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	TaxAmount       decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	ShippingAmount  decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	Status          storefront.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentIntentID string                 `gorm:"type:varchar(100);index"`
	PaidAt          *time.Time
	FulfilledAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:text"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName string          `gorm:"type:varchar(200);not null"`
	SKU      string          `gorm:"type:varchar(50);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *storefront.Order {
	items := make([]storefront.OrderItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = storefront.OrderItem{
			ID:       it.ID,
			OrderID:  it.OrderID,
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			SKU:      it.SKU,
			Price:    it.Price,
		}
	}
	return &storefront.Order{
		TenantAggregateRoot: m.toTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		ShopperID:           m.ShopperID,
		CustomerName:        m.CustomerName,
		CustomerEmail:       m.CustomerEmail,
		CustomerPhone:       m.CustomerPhone,
		ShippingAddress:     m.ShippingAddress,
		Items:               items,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		ShippingAmount:      m.ShippingAmount,
		TotalAmount:         m.TotalAmount,
		Status:              m.Status,
		PaymentIntentID:     m.PaymentIntentID,
		PaidAt:              m.PaidAt,
		FulfilledAt:         m.FulfilledAt,
		CancelledAt:         m.CancelledAt,
		CancelReason:        m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *storefront.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.ShopperID = o.ShopperID
	m.CustomerName = o.CustomerName
	m.CustomerEmail = o.CustomerEmail
	m.CustomerPhone = o.CustomerPhone
	m.ShippingAddress = o.ShippingAddress
	m.Subtotal = o.Subtotal
	m.TaxAmount = o.TaxAmount
	m.ShippingAmount = o.ShippingAmount
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.PaymentIntentID = o.PaymentIntentID
	m.PaidAt = o.PaidAt
	m.FulfilledAt = o.FulfilledAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:       it.ID,
			OrderID:  o.ID,
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			SKU:      it.SKU,
			Price:    it.Price,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *storefront.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
