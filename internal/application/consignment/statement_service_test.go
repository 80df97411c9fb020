package consignment

import (
	"context"
	"errors"
	"testing"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatementServiceGenerateForMonth(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	period, err := consignment.NewStatementPeriod(2026, 1)
	require.NoError(t, err)
	periodStart, periodEnd := period.Bounds()

	t.Run("carries the prior closing balance forward", func(t *testing.T) {
		provider := newTestProvider(t, tenantID)
		sale := newTestSale(t, tenantID, provider.ID, "100.00")

		prior, err := consignment.NewStatement(tenantID, provider.ID, provider.Name, period.Previous(),
			decimal.Zero, nil, nil)
		require.NoError(t, err)
		prior.ClosingBalance = decimal.RequireFromString("42.50")

		providerRepo := new(MockProviderRepository)
		txRepo := new(MockTransactionRepository)
		payoutRepo := new(MockPayoutRepository)
		stmtRepo := new(MockStatementRepository)
		providerRepo.On("FindByStatus", ctx, tenantID, consignment.ProviderStatusActive).
			Return([]consignment.Provider{*provider}, nil)
		stmtRepo.On("FindByProviderAndPeriod", ctx, tenantID, provider.ID, period).Return(nil, shared.ErrNotFound)
		stmtRepo.On("FindByProviderAndPeriod", ctx, tenantID, provider.ID, period.Previous()).Return(prior, nil)
		txRepo.On("FindByProviderInRange", ctx, tenantID, provider.ID, periodStart, periodEnd).
			Return([]*consignment.Transaction{sale}, nil)
		payoutRepo.On("FindPaidByProviderInRange", ctx, tenantID, provider.ID, periodStart, periodEnd).
			Return([]*consignment.Payout{}, nil)

		var saved *consignment.Statement
		stmtRepo.On("Replace", ctx, mock.AnythingOfType("*consignment.Statement")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*consignment.Statement) }).
			Return(nil)

		service := NewStatementService(stmtRepo, txRepo, payoutRepo, providerRepo, nil)
		result, err := service.GenerateForMonth(ctx, tenantID, 2026, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Generated)
		assert.Empty(t, result.Failures)
		require.NotNil(t, saved)
		assert.True(t, saved.OpeningBalance.Equal(decimal.RequireFromString("42.50")))
		assert.True(t, saved.TotalEarnings.Equal(decimal.RequireFromString("60.00")))
		assert.True(t, saved.ClosingBalance.Equal(decimal.RequireFromString("102.50")))
	})

	t.Run("one failing provider does not block the rest", func(t *testing.T) {
		good := newTestProvider(t, tenantID)
		bad, err := consignment.NewProvider(tenantID, "PROV-002", "Attic Finds", decimal.NewFromInt(50))
		require.NoError(t, err)

		providerRepo := new(MockProviderRepository)
		txRepo := new(MockTransactionRepository)
		payoutRepo := new(MockPayoutRepository)
		stmtRepo := new(MockStatementRepository)
		providerRepo.On("FindByStatus", ctx, tenantID, consignment.ProviderStatusActive).
			Return([]consignment.Provider{*bad, *good}, nil)

		stmtRepo.On("FindByProviderAndPeriod", ctx, tenantID, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
		txRepo.On("FindByProviderInRange", ctx, tenantID, bad.ID, periodStart, periodEnd).
			Return([]*consignment.Transaction{}, errors.New("query timeout"))
		txRepo.On("FindByProviderInRange", ctx, tenantID, good.ID, periodStart, periodEnd).
			Return([]*consignment.Transaction{}, nil)
		payoutRepo.On("FindPaidByProviderInRange", ctx, tenantID, good.ID, periodStart, periodEnd).
			Return([]*consignment.Payout{}, nil)
		stmtRepo.On("Replace", ctx, mock.AnythingOfType("*consignment.Statement")).Return(nil)

		service := NewStatementService(stmtRepo, txRepo, payoutRepo, providerRepo, nil)
		result, err := service.GenerateForMonth(ctx, tenantID, 2026, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Generated)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, bad.ID, result.Failures[0].ProviderID)
		assert.Contains(t, result.Failures[0].Error, "query timeout")
	})

	t.Run("viewed statements are skipped, not replaced", func(t *testing.T) {
		provider := newTestProvider(t, tenantID)
		existing, err := consignment.NewStatement(tenantID, provider.ID, provider.Name, period,
			decimal.Zero, nil, nil)
		require.NoError(t, err)
		existing.MarkViewed()

		providerRepo := new(MockProviderRepository)
		stmtRepo := new(MockStatementRepository)
		providerRepo.On("FindByStatus", ctx, tenantID, consignment.ProviderStatusActive).
			Return([]consignment.Provider{*provider}, nil)
		stmtRepo.On("FindByProviderAndPeriod", ctx, tenantID, provider.ID, period).Return(existing, nil)

		service := NewStatementService(stmtRepo, new(MockTransactionRepository), new(MockPayoutRepository), providerRepo, nil)
		result, err := service.GenerateForMonth(ctx, tenantID, 2026, 1)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Generated)
		assert.Equal(t, 1, result.Skipped)
		stmtRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		service := NewStatementService(new(MockStatementRepository), new(MockTransactionRepository), new(MockPayoutRepository), new(MockProviderRepository), nil)
		result, err := service.GenerateForMonth(ctx, tenantID, 2026, 13)

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestStatementServiceMarkViewed(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	provider := newTestProvider(t, tenantID)
	period, err := consignment.NewStatementPeriod(2026, 1)
	require.NoError(t, err)
	stmt, err := consignment.NewStatement(tenantID, provider.ID, provider.Name, period, decimal.Zero, nil, nil)
	require.NoError(t, err)

	stmtRepo := new(MockStatementRepository)
	stmtRepo.On("FindByIDForTenant", ctx, tenantID, stmt.ID).Return(stmt, nil)
	stmtRepo.On("Save", ctx, stmt).Return(nil)

	service := NewStatementService(stmtRepo, new(MockTransactionRepository), new(MockPayoutRepository), new(MockProviderRepository), nil)
	viewed, err := service.MarkViewed(ctx, tenantID, stmt.ID)

	require.NoError(t, err)
	assert.True(t, viewed.Viewed)
	assert.NotNil(t, viewed.ViewedAt)
}
