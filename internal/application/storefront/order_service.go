package storefront

import (
	"context"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentGateway defines the interface for card payment processing.
// Implemented by the Stripe adapter in the infrastructure layer.
type PaymentGateway interface {
	// CreatePaymentIntent opens a payment for the given amount. Returns the
	// gateway's intent ID and the client secret the storefront uses to
	// complete payment.
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderNumber string) (intentID, clientSecret string, err error)

	// CancelPaymentIntent cancels an open payment intent
	CancelPaymentIntent(ctx context.Context, intentID string) error
}

// OrderService handles order queries and the payment lifecycle
type OrderService struct {
	orderRepo storefront.OrderRepository
	gateway   PaymentGateway
	eventBus  shared.EventBus
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo storefront.OrderRepository, gateway PaymentGateway, eventBus shared.EventBus) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		gateway:   gateway,
		eventBus:  eventBus,
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// CreatePaymentIntent opens payment for a pending order and attaches the
// gateway intent to it
func (s *OrderService) CreatePaymentIntent(ctx context.Context, tenantID, orderID uuid.UUID, currency string) (*PaymentIntentResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != storefront.OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}
	if s.gateway == nil {
		return nil, shared.NewDomainError("PAYMENT_NOT_CONFIGURED", "Online payment is not configured for this store")
	}

	intentID, clientSecret, err := s.gateway.CreatePaymentIntent(ctx, order.TotalAmount, currency, order.OrderNumber)
	if err != nil {
		return nil, err
	}

	if err := order.AttachPaymentIntent(intentID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return &PaymentIntentResponse{
		OrderID:         order.ID,
		PaymentIntentID: intentID,
		ClientSecret:    clientSecret,
	}, nil
}

// HandlePaymentSucceeded flips the order to Paid when the gateway reports a
// completed payment. Called from the webhook handler; idempotent for
// repeated deliveries.
func (s *OrderService) HandlePaymentSucceeded(ctx context.Context, intentID string) error {
	order, err := s.orderRepo.FindByPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if order.Status == storefront.OrderStatusPaid {
		return nil
	}

	if err := order.MarkPaid(); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	s.publishEvents(ctx, order)
	return nil
}

// HandlePaymentCanceled cancels the order tied to a canceled payment
// intent. Orders that already completed payment are left untouched.
func (s *OrderService) HandlePaymentCanceled(ctx context.Context, intentID string) error {
	order, err := s.orderRepo.FindByPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if order.Status != storefront.OrderStatusPending {
		return nil
	}

	if err := order.Cancel("Payment canceled"); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, order)
}

// MarkFulfilled marks a paid order as fulfilled
func (s *OrderService) MarkFulfilled(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.MarkFulfilled(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels a pending order and voids its open payment intent
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if order.PaymentIntentID != "" && s.gateway != nil {
		_ = s.gateway.CancelPaymentIntent(ctx, order.PaymentIntentID)
	}

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *storefront.Order) {
	if s.eventBus == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
