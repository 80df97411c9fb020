package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/consignmentgenie/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutService turns a cart into an order. The whole checkout runs in one
// storage transaction: every item is conditionally flipped Available -> Sold,
// the order and one sale transaction per item are written, and the cart is
// cleared. If any item lost a concurrent sale the entire checkout rolls back
// and the shopper gets a conflict naming the item.
type CheckoutService struct {
	cartRepo        storefront.CartRepository
	orderRepo       storefront.OrderRepository
	itemRepo        inventory.ItemRepository
	transactionRepo consignment.TransactionRepository
	providerRepo    consignment.ProviderRepository
	orgRepo         identity.OrganizationRepository
	txManager       shared.TransactionManager
	eventBus        shared.EventBus
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartRepo storefront.CartRepository,
	orderRepo storefront.OrderRepository,
	itemRepo inventory.ItemRepository,
	transactionRepo consignment.TransactionRepository,
	providerRepo consignment.ProviderRepository,
	orgRepo identity.OrganizationRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventBus,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:        cartRepo,
		orderRepo:       orderRepo,
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		providerRepo:    providerRepo,
		orgRepo:         orgRepo,
		txManager:       txManager,
		eventBus:        eventBus,
	}
}

// Checkout creates an order from the cart's current items
func (s *CheckoutService) Checkout(ctx context.Context, tenantID uuid.UUID, sessionID string, req CheckoutRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "checkout")
	defer span.End()

	var cart *storefront.ShoppingCart
	var err error
	if req.ShopperID != nil {
		cart, err = s.cartRepo.FindByShopper(ctx, tenantID, *req.ShopperID)
	} else {
		cart, err = s.cartRepo.FindBySession(ctx, tenantID, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(cart.Items))
	for i, line := range cart.Items {
		ids[i] = line.ItemID
	}
	items, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, inventory.ErrItemNotAvailable
	}

	lines := make([]storefront.OrderLine, len(items))
	providers := make(map[uuid.UUID]*consignment.Provider)
	for i, item := range items {
		if !item.IsAvailable() {
			return nil, shared.NewDomainError("ITEM_NOT_AVAILABLE", fmt.Sprintf("Item %s is no longer available", item.SKU))
		}
		if _, ok := providers[item.ProviderID]; !ok {
			provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, item.ProviderID)
			if err != nil {
				return nil, err
			}
			providers[item.ProviderID] = provider
		}
		lines[i] = storefront.OrderLine{
			ItemID:   item.ID,
			ItemName: item.Name,
			SKU:      item.SKU,
			Price:    item.Price,
		}
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price)
	}
	taxAmount := subtotal.Mul(org.TaxRate).Div(decimal.NewFromInt(100)).RoundBank(2)

	order, err := storefront.NewOrder(tenantID, orderNumber, req.CustomerName, req.CustomerEmail, lines, taxAmount, decimal.Zero)
	if err != nil {
		return nil, err
	}
	order.CustomerPhone = req.CustomerPhone
	if req.ShippingAddress != "" {
		order.SetShippingAddress(req.ShippingAddress)
	}
	if req.ShopperID != nil {
		order.SetShopper(*req.ShopperID)
	}

	sales := make([]*consignment.Transaction, len(items))
	for i, item := range items {
		provider := providers[item.ProviderID]
		sale, err := consignment.NewTransaction(
			tenantID, item.ID, provider.ID, item.Name,
			item.Price, provider.CommissionRate, consignment.SaleChannelOnline,
		)
		if err != nil {
			return nil, err
		}
		sale.SetOrder(order.ID)
		sales[i] = sale
	}

	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		for _, item := range items {
			if err := s.itemRepo.MarkSold(ctx, tenantID, item.ID); err != nil {
				if errors.Is(err, inventory.ErrItemNotAvailable) {
					return shared.NewDomainError("ITEM_NOT_AVAILABLE", fmt.Sprintf("Item %s was sold while checking out", item.SKU))
				}
				return err
			}
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		if err := s.transactionRepo.SaveAll(ctx, sales); err != nil {
			return err
		}
		return s.cartRepo.Delete(ctx, tenantID, cart.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		"line_count", len(lines),
		telemetry.SpanAttrAmount, order.TotalAmount.String(),
	)

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *CheckoutService) publishEvents(ctx context.Context, order *storefront.Order) {
	if s.eventBus == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
