package consignment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSplit(t *testing.T) {
	t.Run("splits 100 at 60 percent into 60 and 40", func(t *testing.T) {
		split, err := CalculateSplit(decimal.NewFromInt(100), decimal.NewFromInt(60))

		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.Equal(decimal.RequireFromString("60.00")), "provider amount: %s", split.ProviderAmount)
		assert.True(t, split.ShopAmount.Equal(decimal.RequireFromString("40.00")), "shop amount: %s", split.ShopAmount)
	})

	t.Run("shop amount absorbs the rounding remainder", func(t *testing.T) {
		// 33.33% of 10.00 = 3.333 -> 3.33; shop gets 6.67, not an
		// independently rounded 6.67 that could drift
		split, err := CalculateSplit(decimal.RequireFromString("10.00"), decimal.RequireFromString("33.33"))

		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.Equal(decimal.RequireFromString("3.33")), "provider amount: %s", split.ProviderAmount)
		assert.True(t, split.ShopAmount.Equal(decimal.RequireFromString("6.67")), "shop amount: %s", split.ShopAmount)
	})

	t.Run("uses banker's rounding on the half cent", func(t *testing.T) {
		// 50% of 0.05 = 0.025 -> rounds half to even: 0.02
		split, err := CalculateSplit(decimal.RequireFromString("0.05"), decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.Equal(decimal.RequireFromString("0.02")), "provider amount: %s", split.ProviderAmount)
		assert.True(t, split.ShopAmount.Equal(decimal.RequireFromString("0.03")), "shop amount: %s", split.ShopAmount)

		// 50% of 0.07 = 0.035 -> rounds half to even: 0.04
		split, err = CalculateSplit(decimal.RequireFromString("0.07"), decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.Equal(decimal.RequireFromString("0.04")), "provider amount: %s", split.ProviderAmount)
		assert.True(t, split.ShopAmount.Equal(decimal.RequireFromString("0.03")), "shop amount: %s", split.ShopAmount)
	})

	t.Run("handles zero sale price", func(t *testing.T) {
		split, err := CalculateSplit(decimal.Zero, decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.IsZero())
		assert.True(t, split.ShopAmount.IsZero())
	})

	t.Run("handles boundary percentages", func(t *testing.T) {
		price := decimal.RequireFromString("123.45")

		split, err := CalculateSplit(price, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.IsZero())
		assert.True(t, split.ShopAmount.Equal(price))

		split, err = CalculateSplit(price, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, split.ProviderAmount.Equal(price))
		assert.True(t, split.ShopAmount.IsZero())
	})

	t.Run("rejects negative sale price", func(t *testing.T) {
		_, err := CalculateSplit(decimal.NewFromInt(-1), decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range percentage", func(t *testing.T) {
		_, err := CalculateSplit(decimal.NewFromInt(100), decimal.NewFromInt(-1))
		assert.Error(t, err)

		_, err = CalculateSplit(decimal.NewFromInt(100), decimal.RequireFromString("100.01"))
		assert.Error(t, err)
	})

	t.Run("reconciles exactly across a range of prices and rates", func(t *testing.T) {
		prices := []string{"0.01", "0.99", "1.00", "19.99", "55.55", "100.00", "999.99", "1000000.00"}
		rates := []string{"0", "12.5", "33.33", "40", "50", "60", "66.67", "75", "100"}

		for _, ps := range prices {
			for _, rs := range rates {
				price := decimal.RequireFromString(ps)
				rate := decimal.RequireFromString(rs)

				split, err := CalculateSplit(price, rate)
				require.NoError(t, err)

				sum := split.ProviderAmount.Add(split.ShopAmount)
				assert.True(t, sum.Equal(price), "price=%s rate=%s: %s + %s != %s", ps, rs, split.ProviderAmount, split.ShopAmount, price)
				assert.True(t, split.ProviderAmount.Equal(price.Mul(rate).Div(decimal.NewFromInt(100)).RoundBank(2)), "price=%s rate=%s", ps, rs)
			}
		}
	})
}
