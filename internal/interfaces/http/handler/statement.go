package handler

import (
	consignmentapp "github.com/consignmentgenie/backend/internal/application/consignment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StatementHandler handles monthly statement API endpoints
type StatementHandler struct {
	BaseHandler
	statementService *consignmentapp.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *consignmentapp.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
	}
}

// List godoc
// @ID           listStatements
// @Summary      List statements
// @Description  Retrieve a paginated list of monthly statements with optional filtering
// @Tags         statements
// @Produce      json
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        year query int false "Statement year"
// @Param        month query int false "Statement month (1-12)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]consignmentapp.StatementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /statements [get]
func (h *StatementHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter consignmentapp.StatementListFilter
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

	statements, total, err := h.statementService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, statements, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getStatementById
// @Summary      Get statement by ID
// @Description  Retrieve a monthly statement by its ID
// @Tags         statements
// @Produce      json
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.StatementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /statements/{id} [get]
func (h *StatementHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.statementService.GetByID(c.Request.Context(), tenantID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// MarkViewed godoc
// @ID           markStatementViewed
// @Summary      Mark a statement as viewed
// @Description  Record that the provider has opened their statement
// @Tags         statements
// @Produce      json
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} APIResponse[consignmentapp.StatementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /statements/{id}/viewed [post]
func (h *StatementHandler) MarkViewed(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.statementService.MarkViewed(c.Request.Context(), tenantID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// Generate godoc
// @ID           generateStatements
// @Summary      Generate statements for a month
// @Description  Run statement generation for every active provider for the given month
// @Tags         statements
// @Accept       json
// @Produce      json
// @Param        request body consignmentapp.GenerateStatementsRequest true "Statement period"
// @Success      200 {object} APIResponse[consignmentapp.StatementRunResult]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /statements/generate [post]
func (h *StatementHandler) Generate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req consignmentapp.GenerateStatementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.statementService.GenerateForMonth(c.Request.Context(), tenantID, req.Year, req.Month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
