package storefront

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest represents a request to reserve an item in a cart
type AddCartItemRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// CartItemResponse represents one reserved item in a cart
type CartItemResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	AddedAt  time.Time       `json:"added_at"`
}

// CartResponse represents a shopping cart in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
}

// ToCartResponse converts a domain cart to a response
func ToCartResponse(cart *storefront.ShoppingCart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = CartItemResponse{
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Price:    line.Price,
			AddedAt:  line.AddedAt,
		}
	}
	return CartResponse{
		ID:        cart.ID,
		Items:     items,
		Subtotal:  cart.Subtotal(),
		ExpiresAt: cart.ExpiresAt,
	}
}

// CheckoutRequest represents a storefront checkout
type CheckoutRequest struct {
	CustomerName    string     `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail   string     `json:"customer_email" binding:"required,email,max=200"`
	CustomerPhone   string     `json:"customer_phone" binding:"max=50"`
	ShippingAddress string     `json:"shipping_address" binding:"max=500"`
	ShopperID       *uuid.UUID `json:"-"`
}

// OrderItemResponse represents one line of an order
type OrderItemResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingAmount  decimal.Decimal     `json:"shipping_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	PaymentIntentID string              `json:"payment_intent_id,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(order *storefront.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, line := range order.Items {
		items[i] = OrderItemResponse{
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			SKU:      line.SKU,
			Price:    line.Price,
		}
	}
	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		Subtotal:        order.Subtotal,
		TaxAmount:       order.TaxAmount,
		ShippingAmount:  order.ShippingAmount,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		PaymentIntentID: order.PaymentIntentID,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to responses
func ToOrderResponses(orders []storefront.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// OrderListFilter represents filtering options for order lists
type OrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status"`
}

// PaymentIntentResponse carries the client secret for the storefront to
// complete payment
type PaymentIntentResponse struct {
	OrderID         uuid.UUID `json:"order_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ClientSecret    string    `json:"client_secret"`
}
