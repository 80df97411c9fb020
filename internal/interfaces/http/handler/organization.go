package handler

import (
	identityapp "github.com/consignmentgenie/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler handles organization API endpoints
type OrganizationHandler struct {
	BaseHandler
	orgService *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// Register godoc
// @ID           registerOrganization
// @Summary      Register a new organization
// @Description  Sign up a new shop together with its owner account
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterOrganizationRequest true "Organization registration request"
// @Success      201 {object} APIResponse[identityapp.OrganizationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /organizations/register [post]
func (h *OrganizationHandler) Register(c *gin.Context) {
	var req identityapp.RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, org)
}

// Get godoc
// @ID           getOrganization
// @Summary      Get the current organization
// @Description  Retrieve the authenticated user's organization
// @Tags         organizations
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.OrganizationResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /organization [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	org, err := h.orgService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, org)
}

// Update godoc
// @ID           updateOrganization
// @Summary      Update the current organization
// @Description  Update shop settings such as contact details, tax rate and storefront visibility
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateOrganizationRequest true "Organization update request"
// @Success      200 {object} APIResponse[identityapp.OrganizationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /organization [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, org)
}
