package storefront

import (
	"context"
	"errors"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/google/uuid"
)

// CartService handles shopping cart operations. Adding an item reserves it
// exclusively: the persistence layer enforces one cart per item per tenant
// with a unique index, so two shoppers cannot reserve the same one-of-a-kind
// piece.
type CartService struct {
	cartRepo  storefront.CartRepository
	itemRepo  inventory.ItemRepository
	txManager shared.TransactionManager
}

// NewCartService creates a new CartService
func NewCartService(cartRepo storefront.CartRepository, itemRepo inventory.ItemRepository, txManager shared.TransactionManager) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
		txManager: txManager,
	}
}

// GetOrCreate returns the active cart for a session or shopper, creating an
// empty one on first use
func (s *CartService) GetOrCreate(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID *uuid.UUID) (*storefront.ShoppingCart, error) {
	var cart *storefront.ShoppingCart
	var err error
	if shopperID != nil {
		cart, err = s.cartRepo.FindByShopper(ctx, tenantID, *shopperID)
	} else {
		cart, err = s.cartRepo.FindBySession(ctx, tenantID, sessionID)
	}
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if shopperID != nil {
			cart, err = storefront.NewShopperCart(tenantID, *shopperID)
		} else {
			cart, err = storefront.NewAnonymousCart(tenantID, sessionID)
		}
		if err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// AddItem reserves an available item in the cart. Re-adding an item already
// in the same cart is a no-op; an item held by another cart conflicts.
func (s *CartService) AddItem(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID *uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable() {
		return nil, inventory.ErrItemNotAvailable
	}

	cart, err := s.GetOrCreate(ctx, tenantID, sessionID, shopperID)
	if err != nil {
		return nil, err
	}

	added, err := cart.AddItem(item.ID, item.Name, item.Price)
	if err != nil {
		return nil, err
	}
	if added {
		if err := s.cartRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveItem releases an item from the cart
func (s *CartService) RemoveItem(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID *uuid.UUID, itemID uuid.UUID) (*CartResponse, error) {
	cart, err := s.findCart(ctx, tenantID, sessionID, shopperID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// GetCart returns the cart, pruning entries whose item is no longer
// available for sale
func (s *CartService) GetCart(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID *uuid.UUID) (*CartResponse, error) {
	cart, err := s.findCart(ctx, tenantID, sessionID, shopperID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty := CartResponse{Items: []CartItemResponse{}}
			return &empty, nil
		}
		return nil, err
	}

	if len(cart.Items) > 0 {
		ids := make([]uuid.UUID, len(cart.Items))
		for i, line := range cart.Items {
			ids[i] = line.ItemID
		}
		items, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
		keep := make(map[uuid.UUID]bool, len(items))
		for _, item := range items {
			if item.IsAvailable() {
				keep[item.ID] = true
			}
		}
		if dropped := cart.PruneMissing(keep); len(dropped) > 0 {
			if err := s.cartRepo.Save(ctx, cart); err != nil {
				return nil, err
			}
		}
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// Merge moves an anonymous session cart into the shopper's cart on login.
// Items already present are skipped; the anonymous cart is deleted.
func (s *CartService) Merge(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID uuid.UUID) (*CartResponse, error) {
	anonymous, err := s.cartRepo.FindBySession(ctx, tenantID, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.GetCart(ctx, tenantID, "", &shopperID)
		}
		return nil, err
	}

	target, err := s.GetOrCreate(ctx, tenantID, "", &shopperID)
	if err != nil {
		return nil, err
	}

	target.MergeFrom(anonymous)

	// Delete and save must commit together: dropping the anonymous cart
	// releases its reservations, and a failed save would hand the items to
	// whichever cart grabs them next. Delete runs first inside the
	// transaction so the moved lines do not trip the reservation index.
	err = s.txManager.Execute(ctx, func(ctx context.Context) error {
		if err := s.cartRepo.Delete(ctx, tenantID, anonymous.ID); err != nil {
			return err
		}
		return s.cartRepo.Save(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(target)
	return &response, nil
}

// SweepExpired removes anonymous carts past their expiry, releasing their
// reservations. Called by the scheduler.
func (s *CartService) SweepExpired(ctx context.Context) (int64, error) {
	return s.cartRepo.DeleteExpiredBefore(ctx, time.Now())
}

func (s *CartService) findCart(ctx context.Context, tenantID uuid.UUID, sessionID string, shopperID *uuid.UUID) (*storefront.ShoppingCart, error) {
	if shopperID != nil {
		return s.cartRepo.FindByShopper(ctx, tenantID, *shopperID)
	}
	return s.cartRepo.FindBySession(ctx, tenantID, sessionID)
}
