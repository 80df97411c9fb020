package handler

import (
	integrationapp "github.com/consignmentgenie/backend/internal/application/integration"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountingHandler handles accounting sync API endpoints
type AccountingHandler struct {
	BaseHandler
	syncService *integrationapp.AccountingSyncService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(syncService *integrationapp.AccountingSyncService) *AccountingHandler {
	return &AccountingHandler{
		syncService: syncService,
	}
}

// CustomerRefResponse carries the external accounting customer reference
// @Description External accounting customer reference
type CustomerRefResponse struct {
	CustomerRef string `json:"customer_ref"`
}

// SyncTransaction godoc
// @ID           syncTransaction
// @Summary      Sync a transaction to accounting
// @Description  Push a completed sale to the connected accounting system as a sales receipt
// @Tags         accounting
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[integrationapp.SyncResultResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/transactions/{id}/sync [post]
func (h *AccountingHandler) SyncTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	result, err := h.syncService.SyncTransaction(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SyncPayout godoc
// @ID           syncPayout
// @Summary      Sync a payout to accounting
// @Description  Push a paid payout to the connected accounting system as a bill payment
// @Tags         accounting
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Success      200 {object} APIResponse[integrationapp.SyncResultResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/payouts/{id}/sync [post]
func (h *AccountingHandler) SyncPayout(c *gin.Context) {
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

	result, err := h.syncService.SyncPayout(c.Request.Context(), tenantID, payoutID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// EnsureCustomer godoc
// @ID           ensureAccountingCustomer
// @Summary      Ensure an accounting customer exists for a provider
// @Description  Create or look up the provider's customer record in the connected accounting system
// @Tags         accounting
// @Produce      json
// @Param        id path string true "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[CustomerRefResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/providers/{id}/customer [post]
func (h *AccountingHandler) EnsureCustomer(c *gin.Context) {
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

	ref, err := h.syncService.EnsureCustomer(c.Request.Context(), tenantID, providerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CustomerRefResponse{CustomerRef: ref})
}
