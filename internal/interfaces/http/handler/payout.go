package handler

import (
	consignmentapp "github.com/consignmentgenie/backend/internal/application/consignment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayoutHandler handles provider payout API endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *consignmentapp.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *consignmentapp.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// Preview godoc
// @ID           previewPayout
// @Summary      Preview a payout batch
// @Description  Show the unpaid transactions and total that a payout for the given provider and period would cover. The window is end-exclusive: sales on or after period_start and strictly before period_end. Pass the first day of the next month as period_end to cover a whole month.
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request body consignmentapp.PayoutPreviewRequest true "Provider and period"
// @Success      200 {object} APIResponse[consignmentapp.PayoutPreviewResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts/preview [post]
func (h *PayoutHandler) Preview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req consignmentapp.PayoutPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.payoutService.Preview(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, preview)
}

// Create godoc
// @ID           createPayout
// @Summary      Create a payout batch
// @Description  Snapshot the provider's unpaid transactions for the period into an immutable payout batch. The window is end-exclusive: sales on or after period_start and strictly before period_end.
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request body consignmentapp.CreatePayoutRequest true "Provider and period"
// @Success      201 {object} APIResponse[consignmentapp.PayoutResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts [post]
func (h *PayoutHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req consignmentapp.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	payout, err := h.payoutService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payout)
}

// GetByID godoc
// @ID           getPayoutById
// @Summary      Get payout by ID
// @Description  Retrieve a payout batch by its ID
// @Tags         payouts
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.PayoutResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts/{id} [get]
func (h *PayoutHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}

	payout, err := h.payoutService.GetByID(c.Request.Context(), tenantID, payoutID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payout)
}

// List godoc
// @ID           listPayouts
// @Summary      List payouts
// @Description  Retrieve a paginated list of payout batches with optional filtering
// @Tags         payouts
// @Produce      json
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        status query string false "Payout status" Enums(PENDING, PAID, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]consignmentapp.PayoutResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts [get]
func (h *PayoutHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter consignmentapp.PayoutListFilter
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

	payouts, total, err := h.payoutService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payouts, total, filter.Page, filter.PageSize)
}

// MarkPaid godoc
// @ID           markPayoutPaid
// @Summary      Mark a payout as paid
// @Description  Settle a pending payout batch, stamping the covered transactions as paid out
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Param        request body consignmentapp.MarkPayoutPaidRequest true "Payment method and notes"
// @Success      200 {object} APIResponse[consignmentapp.PayoutResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts/{id}/pay [post]
func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}

	var req consignmentapp.MarkPayoutPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payout, err := h.payoutService.MarkAsPaid(c.Request.Context(), tenantID, payoutID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payout)
}

// Cancel godoc
// @ID           cancelPayout
// @Summary      Cancel a payout
// @Description  Cancel a pending payout batch, releasing its transactions for a future payout
// @Tags         payouts
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.PayoutResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payouts/{id}/cancel [post]
func (h *PayoutHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}

	payout, err := h.payoutService.Cancel(c.Request.Context(), tenantID, payoutID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payout)
}
