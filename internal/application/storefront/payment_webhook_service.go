package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/internal/infrastructure/payment"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// PaymentWebhookService handles Stripe webhook events for storefront orders
type PaymentWebhookService struct {
	config       *payment.StripeConfig
	orderService *OrderService
	logger       *zap.Logger
}

// NewPaymentWebhookService creates a new PaymentWebhookService
func NewPaymentWebhookService(config *payment.StripeConfig, orderService *OrderService, logger *zap.Logger) *PaymentWebhookService {
	return &PaymentWebhookService{
		config:       config,
		orderService: orderService,
		logger:       logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the event signature and dispatches by event type
func (s *PaymentWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature",
			zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = s.handlePaymentIntentSucceeded(ctx, event)
	case "payment_intent.canceled":
		err = s.handlePaymentIntentCanceled(ctx, event)
	case "payment_intent.payment_failed":
		err = s.handlePaymentIntentFailed(ctx, event)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handlePaymentIntentSucceeded handles payment_intent.succeeded events
func (s *PaymentWebhookService) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	s.logger.Info("Handling payment intent succeeded",
		zap.String("intent_id", intent.ID))

	err := s.orderService.HandlePaymentSucceeded(ctx, intent.ID)
	if errors.Is(err, shared.ErrNotFound) {
		// Note: ErrNotFound is not treated as an error because intents not
		// tied to any order (manual dashboard charges, test events) still
		// need to be acknowledged to prevent Stripe retries.
		s.logger.Warn("No order found for payment intent",
			zap.String("intent_id", intent.ID))
		return nil
	}
	return err
}

// handlePaymentIntentCanceled handles payment_intent.canceled events
func (s *PaymentWebhookService) handlePaymentIntentCanceled(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	s.logger.Info("Handling payment intent canceled",
		zap.String("intent_id", intent.ID))

	err := s.orderService.HandlePaymentCanceled(ctx, intent.ID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("No order found for payment intent",
			zap.String("intent_id", intent.ID))
		return nil
	}
	return err
}

// handlePaymentIntentFailed handles payment_intent.payment_failed events.
// The order stays pending so the shopper can retry with another card.
func (s *PaymentWebhookService) handlePaymentIntentFailed(ctx context.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	failureMessage := ""
	if intent.LastPaymentError != nil {
		failureMessage = intent.LastPaymentError.Msg
	}
	s.logger.Warn("Payment attempt failed",
		zap.String("intent_id", intent.ID),
		zap.String("failure_message", failureMessage))

	return nil
}
