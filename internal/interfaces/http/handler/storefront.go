package handler

import (
	storefrontapp "github.com/consignmentgenie/backend/internal/application/storefront"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartSessionHeader carries the anonymous cart session identifier
const CartSessionHeader = "X-Cart-Session"

// StorefrontHandler handles the public storefront API endpoints. Routes are
// scoped by store slug and do not require staff authentication; shopper
// identity is attached when a shopper token is present.
type StorefrontHandler struct {
	BaseHandler
	catalogService  *storefrontapp.CatalogService
	cartService     *storefrontapp.CartService
	checkoutService *storefrontapp.CheckoutService
	orderService    *storefrontapp.OrderService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	catalogService *storefrontapp.CatalogService,
	cartService *storefrontapp.CartService,
	checkoutService *storefrontapp.CheckoutService,
	orderService *storefrontapp.OrderService,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalogService:  catalogService,
		cartService:     cartService,
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// resolveStore maps the slug path parameter to the owning store. A nil
// return means the response has already been written.
func (h *StorefrontHandler) resolveStore(c *gin.Context) *storefrontapp.StoreResponse {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Store slug is required")
		return nil
	}

	store, err := h.catalogService.ResolveStore(c.Request.Context(), slug)
	if err != nil {
		h.HandleDomainError(c, err)
		return nil
	}
	return store
}

// cartIdentity extracts the session ID header and optional shopper ID
func (h *StorefrontHandler) cartIdentity(c *gin.Context) (string, *uuid.UUID) {
	sessionID := c.GetHeader(CartSessionHeader)

	var shopperID *uuid.UUID
	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		shopperID = &userID
	}
	return sessionID, shopperID
}

// GetStore godoc
// @ID           getStore
// @Summary      Get a storefront profile
// @Description  Resolve a public storefront by its slug
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} APIResponse[storefrontapp.StoreResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug} [get]
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	h.Success(c, store)
}

// ListItems godoc
// @ID           listStoreItems
// @Summary      Browse store items
// @Description  List the available items of a public storefront
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        search query string false "Search term"
// @Param        category query string false "Category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]storefrontapp.StoreItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/items [get]
func (h *StorefrontHandler) ListItems(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	var filter storefrontapp.StoreItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := h.catalogService.ListItems(c.Request.Context(), store.ID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetCart godoc
// @ID           getCart
// @Summary      Get the shopping cart
// @Description  Retrieve the cart for the current session or shopper
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Anonymous cart session ID"
// @Success      200 {object} APIResponse[storefrontapp.CartResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/cart [get]
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	sessionID, shopperID := h.cartIdentity(c)
	if sessionID == "" && shopperID == nil {
		h.BadRequest(c, "Cart session ID is required")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), store.ID, sessionID, shopperID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddCartItem godoc
// @ID           addCartItem
// @Summary      Add an item to the cart
// @Description  Reserve an available item in the cart; each item can be held by only one cart at a time
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Anonymous cart session ID"
// @Param        request body storefrontapp.AddCartItemRequest true "Item to reserve"
// @Success      200 {object} APIResponse[storefrontapp.CartResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/cart/items [post]
func (h *StorefrontHandler) AddCartItem(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	sessionID, shopperID := h.cartIdentity(c)
	if sessionID == "" && shopperID == nil {
		h.BadRequest(c, "Cart session ID is required")
		return
	}

	var req storefrontapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), store.ID, sessionID, shopperID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveCartItem godoc
// @ID           removeCartItem
// @Summary      Remove an item from the cart
// @Description  Release a reserved item from the cart
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Anonymous cart session ID"
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.CartResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/cart/items/{itemId} [delete]
func (h *StorefrontHandler) RemoveCartItem(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	sessionID, shopperID := h.cartIdentity(c)
	if sessionID == "" && shopperID == nil {
		h.BadRequest(c, "Cart session ID is required")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), store.ID, sessionID, shopperID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// MergeCart godoc
// @ID           mergeCart
// @Summary      Merge an anonymous cart into the shopper's cart
// @Description  After login, move reservations from the session cart to the shopper's cart
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Anonymous cart session ID"
// @Success      200 {object} APIResponse[storefrontapp.CartResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /store/{slug}/cart/merge [post]
func (h *StorefrontHandler) MergeCart(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	sessionID := c.GetHeader(CartSessionHeader)
	if sessionID == "" {
		h.BadRequest(c, "Cart session ID is required")
		return
	}

	shopperID, err := getUserID(c)
	if err != nil || shopperID == uuid.Nil {
		h.Unauthorized(c, "Shopper authentication required")
		return
	}

	cart, err := h.cartService.Merge(c.Request.Context(), store.ID, sessionID, shopperID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Checkout godoc
// @ID           checkout
// @Summary      Check out the cart
// @Description  Convert the cart's reservations into an order, selling every reserved item
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Anonymous cart session ID"
// @Param        request body storefrontapp.CheckoutRequest true "Customer details"
// @Success      201 {object} APIResponse[storefrontapp.OrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/checkout [post]
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	sessionID, shopperID := h.cartIdentity(c)
	if sessionID == "" && shopperID == nil {
		h.BadRequest(c, "Cart session ID is required")
		return
	}

	var req storefrontapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ShopperID = shopperID

	order, err := h.checkoutService.Checkout(c.Request.Context(), store.ID, sessionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @ID           getStoreOrder
// @Summary      Get an order by number
// @Description  Look up an order's status by its public order number
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        number path string true "Order number"
// @Success      200 {object} APIResponse[storefrontapp.OrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/orders/{number} [get]
func (h *StorefrontHandler) GetOrder(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByNumber(c.Request.Context(), store.ID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// CreatePaymentIntent godoc
// @ID           createPaymentIntent
// @Summary      Create a payment intent for an order
// @Description  Start card payment for a pending order, returning the client secret
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.PaymentIntentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /store/{slug}/orders/{id}/payment-intent [post]
func (h *StorefrontHandler) CreatePaymentIntent(c *gin.Context) {
	store := h.resolveStore(c)
	if store == nil {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	intent, err := h.orderService.CreatePaymentIntent(c.Request.Context(), store.ID, orderID, store.Currency)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, intent)
}
