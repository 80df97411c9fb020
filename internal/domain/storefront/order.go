package storefront

import (
	"strings"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a storefront order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusFulfilled || target == OrderStatusCancelled
	case OrderStatusFulfilled, OrderStatusCancelled:
		return false
	}
	return false
}

// OrderItem is a snapshot of one sold item at checkout time. Name and price
// are copied so later item edits never change order history.
type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	ItemName string
	SKU      string
	Price    decimal.Decimal
}

// Order is a storefront checkout: the snapshot of a cart's items at the
// moment every one of them transitioned Available -> Sold.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	ShopperID       *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	PaymentIntentID string
	PaidAt          *time.Time
	FulfilledAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// OrderLine describes one item entering a new order
type OrderLine struct {
	ItemID   uuid.UUID
	ItemName string
	SKU      string
	Price    decimal.Decimal
}

// NewOrder creates a pending order from checkout lines.
// TotalAmount = sum(line prices) + tax + shipping.
func NewOrder(tenantID uuid.UUID, orderNumber, customerName, customerEmail string, lines []OrderLine, taxAmount, shippingAmount decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Customer email cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order requires at least one item")
	}
	if taxAmount.IsNegative() || shippingAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Tax and shipping cannot be negative")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerName:        customerName,
		CustomerEmail:       strings.ToLower(strings.TrimSpace(customerEmail)),
		Status:              OrderStatusPending,
		TaxAmount:           taxAmount,
		ShippingAmount:      shippingAmount,
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.ItemID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "Order line item ID cannot be empty")
		}
		if line.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Order line price cannot be negative")
		}
		order.Items = append(order.Items, OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			SKU:      line.SKU,
			Price:    line.Price,
		})
		subtotal = subtotal.Add(line.Price)
	}

	order.Subtotal = subtotal
	order.TotalAmount = subtotal.Add(taxAmount).Add(shippingAmount)

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// SetShopper links the order to an authenticated shopper
func (o *Order) SetShopper(shopperID uuid.UUID) {
	o.ShopperID = &shopperID
	o.UpdatedAt = time.Now()
}

// SetShippingAddress records the delivery address
func (o *Order) SetShippingAddress(address string) {
	o.ShippingAddress = address
	o.UpdatedAt = time.Now()
}

// AttachPaymentIntent records the externally-issued payment intent ID
func (o *Order) AttachPaymentIntent(intentID string) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payment can only start on a pending order")
	}
	o.PaymentIntentID = intentID
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid transitions the order to Paid once payment is confirmed
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be marked paid in its current state")
	}
	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// MarkFulfilled transitions the order to Fulfilled after pickup/shipment
func (o *Order) MarkFulfilled() error {
	if !o.Status.CanTransitionTo(OrderStatusFulfilled) {
		return shared.NewDomainError("INVALID_STATE", "Only paid orders can be fulfilled")
	}
	now := time.Now()
	o.Status = OrderStatusFulfilled
	o.FulfilledAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel cancels the order. The caller is responsible for reopening the
// underlying items and voiding the sale transactions.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in its current state")
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

// ItemIDs returns the IDs of the consigned items in this order
func (o *Order) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ItemID
	}
	return ids
}
