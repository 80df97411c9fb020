package consignment

import (
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Split is the result of dividing a sale price between provider and shop.
type Split struct {
	ProviderAmount decimal.Decimal
	ShopAmount     decimal.Decimal
}

// CalculateSplit divides a sale price between the provider and the shop.
//
// The provider amount is salePrice * splitPercentage / 100, rounded to
// 2 decimal places using banker's rounding (round half to even). The shop
// amount is derived as salePrice - providerAmount so it absorbs any rounding
// remainder: ProviderAmount + ShopAmount always equals salePrice to the cent.
// The shop amount must never be rounded independently.
//
// Inputs outside their valid range (negative sale price, percentage outside
// [0, 100]) are precondition violations and are rejected, not clamped.
func CalculateSplit(salePrice, splitPercentage decimal.Decimal) (Split, error) {
	if salePrice.IsNegative() {
		return Split{}, shared.NewDomainError("INVALID_SALE_PRICE", "Sale price cannot be negative")
	}
	if err := ValidateCommissionRate(splitPercentage); err != nil {
		return Split{}, err
	}

	providerAmount := salePrice.Mul(splitPercentage).Div(decimal.NewFromInt(100)).RoundBank(2)
	shopAmount := salePrice.Sub(providerAmount)

	return Split{
		ProviderAmount: providerAmount,
		ShopAmount:     shopAmount,
	}, nil
}
