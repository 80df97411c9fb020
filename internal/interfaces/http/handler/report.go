package handler

import (
	reportapp "github.com/consignmentgenie/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetSalesSummary godoc
// @ID           getSalesSummaryReport
// @Summary      Get sales summary
// @Description  Aggregate sales, provider earnings and shop revenue over a date range
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        channel query string false "Sale channel" Enums(IN_STORE, ONLINE)
// @Success      200 {object} APIResponse[reportapp.SalesSummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/summary [get]
func (h *ReportHandler) GetSalesSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetSalesSummary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetDailySalesTrend godoc
// @ID           getDailySalesTrendReport
// @Summary      Get daily sales trend
// @Description  Per-day sales totals over a date range
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        channel query string false "Sale channel" Enums(IN_STORE, ONLINE)
// @Success      200 {object} APIResponse[[]reportapp.DailySalesTrendResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/trend [get]
func (h *ReportHandler) GetDailySalesTrend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	trend, err := h.reportService.GetDailySalesTrend(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, trend)
}

// GetProviderSalesRanking godoc
// @ID           getProviderSalesRankingReport
// @Summary      Get provider sales ranking
// @Description  Rank providers by sales volume over a date range
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Param        top_n query int false "Limit to the top N providers" default(10)
// @Success      200 {object} APIResponse[[]reportapp.ProviderSalesRankingResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales/providers [get]
func (h *ReportHandler) GetProviderSalesRanking(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ranking, err := h.reportService.GetProviderSalesRanking(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ranking)
}

// GetInventorySummary godoc
// @ID           getInventorySummaryReport
// @Summary      Get inventory summary
// @Description  Item counts and value grouped by status
// @Tags         reports
// @Produce      json
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[reportapp.InventorySummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/inventory/summary [get]
func (h *ReportHandler) GetInventorySummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.InventoryReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetInventorySummary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetInventoryAging godoc
// @ID           getInventoryAgingReport
// @Summary      Get inventory aging detail
// @Description  Available items with their days on the floor, oldest first
// @Tags         reports
// @Produce      json
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        bucket query string false "Restrict to one aging bucket" Enums(0-30, 31-60, 61-90, 90+)
// @Param        top_n query int false "Limit the number of items returned"
// @Success      200 {object} APIResponse[[]reportapp.InventoryAgingItemResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/inventory/aging [get]
func (h *ReportHandler) GetInventoryAging(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.InventoryReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.reportService.GetInventoryAging(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// GetInventoryAgingSummary godoc
// @ID           getInventoryAgingSummaryReport
// @Summary      Get inventory aging summary
// @Description  Available item counts and value grouped into aging buckets
// @Tags         reports
// @Produce      json
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Success      200 {object} APIResponse[[]reportapp.InventoryAgingSummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/inventory/aging/summary [get]
func (h *ReportHandler) GetInventoryAgingSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.InventoryReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetInventoryAgingSummary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetDailyReconciliation godoc
// @ID           getDailyReconciliationReport
// @Summary      Get daily reconciliation
// @Description  Per-day takings split by payment method, with voids, over a date range
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]reportapp.DailyReconciliationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/finance/reconciliation [get]
func (h *ReportHandler) GetDailyReconciliation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.FinanceReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	days, err := h.reportService.GetDailyReconciliation(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, days)
}

// GetProviderBalances godoc
// @ID           getProviderBalancesReport
// @Summary      Get provider balances
// @Description  Outstanding unpaid earnings per provider
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[[]reportapp.ProviderBalanceResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/finance/balances [get]
func (h *ReportHandler) GetProviderBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	balances, err := h.reportService.GetProviderBalances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balances)
}

// GetPayoutSummary godoc
// @ID           getPayoutSummaryReport
// @Summary      Get payout summary
// @Description  Payout counts and totals over a date range
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "Start date (YYYY-MM-DD)"
// @Param        end_date query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[reportapp.PayoutSummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reports/finance/payouts [get]
func (h *ReportHandler) GetPayoutSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter reportapp.FinanceReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reportService.GetPayoutSummary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
