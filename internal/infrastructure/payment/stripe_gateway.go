package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"go.uber.org/zap"
)

// StripeGateway processes storefront card payments through Stripe
// PaymentIntents
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Initialize Stripe client
	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreatePaymentIntent opens a Stripe PaymentIntent for the given amount and
// returns the intent ID together with the client secret the storefront needs
// to confirm the payment.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderNumber string) (string, string, error) {
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountToMinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(fmt.Sprintf("Order %s", orderNumber)),
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"order_number": orderNumber,
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe payment intent",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return "", "", fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("order_number", orderNumber),
		zap.String("intent_id", intent.ID))

	return intent.ID, intent.ClientSecret, nil
}

// CancelPaymentIntent cancels an open payment intent
func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		g.logger.Error("Failed to cancel Stripe payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel payment intent: %w", err)
	}

	g.logger.Info("Canceled Stripe payment intent",
		zap.String("intent_id", intentID))

	return nil
}

// amountToMinorUnits converts a decimal amount to the currency's smallest
// unit. Stripe expresses all amounts as integer cents.
func amountToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
