package report

import (
	"context"
	"testing"
	"time"

	"github.com/consignmentgenie/backend/internal/domain/report"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSalesReportRepository struct {
	mock.Mock
}

func (m *MockSalesReportRepository) GetSalesSummary(filter report.SalesReportFilter) (*report.SalesSummary, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SalesSummary), args.Error(1)
}

func (m *MockSalesReportRepository) GetChannelBreakdown(filter report.SalesReportFilter) ([]report.ChannelBreakdown, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.ChannelBreakdown), args.Error(1)
}

func (m *MockSalesReportRepository) GetDailySalesTrend(filter report.SalesReportFilter) ([]report.DailySalesTrend, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.DailySalesTrend), args.Error(1)
}

func (m *MockSalesReportRepository) GetProviderSalesRanking(filter report.SalesReportFilter) ([]report.ProviderSalesRanking, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.ProviderSalesRanking), args.Error(1)
}

type MockInventoryReportRepository struct {
	mock.Mock
}

func (m *MockInventoryReportRepository) GetInventorySummary(filter report.InventoryReportFilter) (*report.InventorySummary, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.InventorySummary), args.Error(1)
}

func (m *MockInventoryReportRepository) GetInventoryAging(filter report.InventoryReportFilter) ([]report.InventoryAgingItem, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.InventoryAgingItem), args.Error(1)
}

func (m *MockInventoryReportRepository) GetInventoryAgingSummary(filter report.InventoryReportFilter) ([]report.InventoryAgingSummary, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.InventoryAgingSummary), args.Error(1)
}

type MockFinanceReportRepository struct {
	mock.Mock
}

func (m *MockFinanceReportRepository) GetDailyReconciliation(filter report.FinanceReportFilter) ([]report.DailyReconciliation, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.DailyReconciliation), args.Error(1)
}

func (m *MockFinanceReportRepository) GetProviderBalances(tenantID uuid.UUID) ([]report.ProviderBalance, error) {
	args := m.Called(tenantID)
	return args.Get(0).([]report.ProviderBalance), args.Error(1)
}

func (m *MockFinanceReportRepository) GetPayoutSummary(filter report.FinanceReportFilter) (*report.PayoutSummary, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.PayoutSummary), args.Error(1)
}

func newTestService() (*ReportService, *MockSalesReportRepository, *MockInventoryReportRepository, *MockFinanceReportRepository) {
	salesRepo := new(MockSalesReportRepository)
	inventoryRepo := new(MockInventoryReportRepository)
	financeRepo := new(MockFinanceReportRepository)
	return NewReportService(salesRepo, inventoryRepo, financeRepo), salesRepo, inventoryRepo, financeRepo
}

func TestGetSalesSummary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("combines the summary with the channel breakdown", func(t *testing.T) {
		service, salesRepo, _, _ := newTestService()
		salesRepo.On("GetSalesSummary", mock.Anything).Return(&report.SalesSummary{
			PeriodStart:      start,
			PeriodEnd:        end,
			TransactionCount: 12,
			GrossSales:       decimal.RequireFromString("840.00"),
			ProviderShare:    decimal.RequireFromString("504.00"),
			ShopShare:        decimal.RequireFromString("336.00"),
			AvgSaleValue:     decimal.RequireFromString("70.00"),
		}, nil)
		salesRepo.On("GetChannelBreakdown", mock.Anything).Return([]report.ChannelBreakdown{
			{Channel: "POS", TransactionCount: 9, GrossSales: decimal.RequireFromString("600.00")},
			{Channel: "ONLINE", TransactionCount: 3, GrossSales: decimal.RequireFromString("240.00")},
		}, nil)

		response, err := service.GetSalesSummary(ctx, tenantID, SalesReportFilter{StartDate: start, EndDate: end})

		require.NoError(t, err)
		assert.Equal(t, int64(12), response.TransactionCount)
		assert.InDelta(t, 840.00, response.GrossSales, 0.001)
		assert.InDelta(t, 336.00, response.ShopShare, 0.001)
		require.Len(t, response.ByChannel, 2)
		assert.Equal(t, "POS", response.ByChannel[0].Channel)

		filter := salesRepo.Calls[0].Arguments.Get(0).(report.SalesReportFilter)
		assert.Equal(t, tenantID, filter.TenantID)
	})

	t.Run("rejects an inverted period", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.GetSalesSummary(ctx, tenantID, SalesReportFilter{StartDate: end, EndDate: start})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
	})
}

func TestGetProviderSalesRanking(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	service, salesRepo, _, _ := newTestService()
	salesRepo.On("GetProviderSalesRanking", mock.Anything).Return([]report.ProviderSalesRanking{
		{Rank: 1, ProviderID: uuid.New(), ProviderCode: "PROV-001", ProviderName: "Jane's Vintage",
			TransactionCount: 8, GrossSales: decimal.RequireFromString("560.00")},
	}, nil)

	responses, err := service.GetProviderSalesRanking(ctx, tenantID, SalesReportFilter{StartDate: start, EndDate: end})

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "PROV-001", responses[0].ProviderCode)

	// TopN defaults when not supplied
	filter := salesRepo.Calls[0].Arguments.Get(0).(report.SalesReportFilter)
	assert.Equal(t, 10, filter.TopN)
}

func TestGetInventoryAgingSummary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	service, _, inventoryRepo, _ := newTestService()
	inventoryRepo.On("GetInventoryAgingSummary", mock.Anything).Return([]report.InventoryAgingSummary{
		{AgingBucket: report.AgingBucket0To30, ItemCount: 14, TotalValue: decimal.RequireFromString("980.00")},
		{AgingBucket: report.AgingBucket90Plus, ItemCount: 3, TotalValue: decimal.RequireFromString("120.00")},
	}, nil)

	responses, err := service.GetInventoryAgingSummary(ctx, tenantID, InventoryReportFilter{})

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "0-30", responses[0].AgingBucket)
	assert.InDelta(t, 120.00, responses[1].TotalValue, 0.001)
}

func TestGetDailyReconciliation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	service, _, _, financeRepo := newTestService()
	financeRepo.On("GetDailyReconciliation", mock.Anything).Return([]report.DailyReconciliation{
		{
			Date:          day,
			POSCount:      5,
			POSGross:      decimal.RequireFromString("300.00"),
			OnlineCount:   2,
			OnlineGross:   decimal.RequireFromString("110.00"),
			TotalGross:    decimal.RequireFromString("410.00"),
			ProviderShare: decimal.RequireFromString("246.00"),
			ShopShare:     decimal.RequireFromString("164.00"),
		},
	}, nil)

	responses, err := service.GetDailyReconciliation(ctx, tenantID, FinanceReportFilter{StartDate: day, EndDate: day})

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.InDelta(t, 410.00, responses[0].TotalGross, 0.001)
	assert.InDelta(t, 164.00, responses[0].ShopShare, 0.001)
}

func TestGetProviderBalances(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	service, _, _, financeRepo := newTestService()
	financeRepo.On("GetProviderBalances", tenantID).Return([]report.ProviderBalance{
		{ProviderID: uuid.New(), ProviderCode: "PROV-001", ProviderName: "Jane's Vintage",
			UnpaidCount: 4, UnpaidAmount: decimal.RequireFromString("186.40")},
	}, nil)

	responses, err := service.GetProviderBalances(ctx, tenantID)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.InDelta(t, 186.40, responses[0].UnpaidAmount, 0.001)
}
