package handler

import (
	consignmentapp "github.com/consignmentgenie/backend/internal/application/consignment"
	identityapp "github.com/consignmentgenie/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProviderHandler handles provider (consignor) API endpoints
type ProviderHandler struct {
	BaseHandler
	providerService *consignmentapp.ProviderService
	userService     *identityapp.UserService
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providerService *consignmentapp.ProviderService, userService *identityapp.UserService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		userService:     userService,
	}
}

// RejectProviderRequest represents a request to reject a pending provider
// @Description Request body for rejecting a provider application
type RejectProviderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CreateProviderLoginRequest represents a request to open portal access for a provider
// @Description Request body for creating a provider portal login
type CreateProviderLoginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"max=200"`
}

// Create godoc
// @ID           createProvider
// @Summary      Create a new provider
// @Description  Register a consignor with their commission rate
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        request body consignmentapp.CreateProviderRequest true "Provider creation request"
// @Success      201 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers [post]
func (h *ProviderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req consignmentapp.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	provider, err := h.providerService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, provider)
}

// GetByID godoc
// @ID           getProviderById
// @Summary      Get provider by ID
// @Description  Retrieve a provider by its ID
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id} [get]
func (h *ProviderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	provider, err := h.providerService.GetByID(c.Request.Context(), tenantID, providerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// List godoc
// @ID           listProviders
// @Summary      List providers
// @Description  Retrieve a paginated list of providers with optional filtering
// @Tags         providers
// @Produce      json
// @Param        search query string false "Search term (name, code, email)"
// @Param        status query string false "Provider status" Enums(PENDING, ACTIVE, REJECTED, DEACTIVATED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter consignmentapp.ProviderListFilter
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

	providers, total, err := h.providerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, providers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProvider
// @Summary      Update a provider
// @Description  Update provider contact details or commission rate
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Param        request body consignmentapp.UpdateProviderRequest true "Provider update request"
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id} [put]
func (h *ProviderHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	var req consignmentapp.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	provider, err := h.providerService.Update(c.Request.Context(), tenantID, providerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// Approve godoc
// @ID           approveProvider
// @Summary      Approve a provider
// @Description  Approve a pending provider application
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/approve [post]
func (h *ProviderHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	provider, err := h.providerService.Approve(c.Request.Context(), tenantID, providerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// Reject godoc
// @ID           rejectProvider
// @Summary      Reject a provider
// @Description  Reject a pending provider application
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Param        request body RejectProviderRequest false "Rejection reason"
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/reject [post]
func (h *ProviderHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	var req RejectProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	provider, err := h.providerService.Reject(c.Request.Context(), tenantID, providerID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// Deactivate godoc
// @ID           deactivateProvider
// @Summary      Deactivate a provider
// @Description  Deactivate an active provider
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/deactivate [post]
func (h *ProviderHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	provider, err := h.providerService.Deactivate(c.Request.Context(), tenantID, providerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// Reactivate godoc
// @ID           reactivateProvider
// @Summary      Reactivate a provider
// @Description  Restore a deactivated provider to active status
// @Tags         providers
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.ProviderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/reactivate [post]
func (h *ProviderHandler) Reactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	provider, err := h.providerService.Reactivate(c.Request.Context(), tenantID, providerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, provider)
}

// CreateLogin godoc
// @ID           createProviderLogin
// @Summary      Create a provider portal login
// @Description  Open portal access for a provider by creating a linked account
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Param        request body CreateProviderLoginRequest true "Portal login details"
// @Success      201 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /providers/{id}/login [post]
func (h *ProviderHandler) CreateLogin(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid provider ID format")
		return
	}

	var req CreateProviderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateProviderLogin(c.Request.Context(), tenantID, providerID, req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}
