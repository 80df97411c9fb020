// Consignment business metrics: sales, payments, payouts, inventory.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics records sale activity, payment outcomes, payout
// completions and inventory health. Counters are recorded inline by the
// application services; the inventory gauges come from a periodic
// collection loop.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	saleRecordedTotal *Counter
	saleAmountTotal   *Counter
	paymentTotal      *Counter
	payoutPaidTotal   *Counter

	inventoryItemCount   *Gauge
	cartReservationCount *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	inventoryProvider InventoryMetricsProvider
}

// InventoryMetricsProvider supplies inventory state for the collection
// loop. The interface keeps the telemetry layer off the inventory domain;
// the persistence layer implements it directly against the database.
type InventoryMetricsProvider interface {
	// GetItemCountsByStatus returns the item count per status for a tenant.
	GetItemCountsByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)

	// GetActiveReservationCount returns the number of unexpired cart
	// reservations for a tenant.
	GetActiveReservationCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics. A zero
// CollectInterval means the 5 minute default.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration
	InventoryProvider InventoryMetricsProvider
}

// NewBusinessMetrics creates the instruments. It fails only when an
// instrument cannot be registered on the meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		inventoryProvider: cfg.InventoryProvider,
	}

	var err error
	bm.saleRecordedTotal, err = NewCounter(cfg.Meter,
		"consignment_sale_recorded_total", "Total number of sales recorded", "{sales}")
	if err != nil {
		return nil, err
	}
	bm.saleAmountTotal, err = NewCounter(cfg.Meter,
		"consignment_sale_amount_total", "Total sale amount in cents", "{cents}")
	if err != nil {
		return nil, err
	}
	bm.paymentTotal, err = NewCounter(cfg.Meter,
		"consignment_payment_total", "Total number of payment transactions", "{payments}")
	if err != nil {
		return nil, err
	}
	bm.payoutPaidTotal, err = NewCounter(cfg.Meter,
		"consignment_payout_paid_total", "Total number of provider payouts marked paid", "{payouts}")
	if err != nil {
		return nil, err
	}
	bm.inventoryItemCount, err = NewGauge(cfg.Meter,
		"consignment_inventory_item_count", "Current item count by status", "{items}")
	if err != nil {
		return nil, err
	}
	bm.cartReservationCount, err = NewGauge(cfg.Meter,
		"consignment_cart_reservation_count", "Current number of unexpired cart reservations", "{items}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordSale records one sale and its amount. Amount is the item sale
// price, converted to cents for the counter. Channel is "POS" or "ONLINE".
func (bm *BusinessMetrics) RecordSale(ctx context.Context, tenantID uuid.UUID, channel string, amount decimal.Decimal) {
	bm.saleRecordedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrSaleChannel.String(channel),
	)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.saleAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrSaleChannel.String(channel),
	)
}

// PaymentStatus labels a payment outcome for metrics.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// RecordPayment records a payment outcome, called from webhook processing.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, paymentMethod string, status PaymentStatus) {
	bm.paymentTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(status)),
	)
}

// RecordPayoutPaid records a settled payout batch.
func (bm *BusinessMetrics) RecordPayoutPaid(ctx context.Context, tenantID, providerID uuid.UUID) {
	bm.payoutPaidTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrProviderID.String(providerID.String()),
	)
}

// RecordItemCount sets the item count gauge for one status.
func (bm *BusinessMetrics) RecordItemCount(ctx context.Context, tenantID uuid.UUID, status string, count int64) {
	bm.inventoryItemCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrItemStatus.String(status),
	)
}

// RecordReservationCount sets the unexpired cart reservation gauge.
func (bm *BusinessMetrics) RecordReservationCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.cartReservationCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// TenantProvider supplies the tenants to sweep during collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection launches the gauge collection loop. Non-blocking
// and one-shot: later calls are ignored. Stop ends the loop.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First sweep happens immediately so dashboards are not empty for a
	// whole interval after startup.
	bm.collectInventoryMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInventoryMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectInventoryMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.inventoryProvider == nil {
		bm.logger.Debug("No inventory provider configured, skipping inventory metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantInventoryMetrics(ctx, tenantID)
	}
}

// collectTenantInventoryMetrics sweeps one tenant. A failing query skips
// that gauge for this round; the sweep continues.
func (bm *BusinessMetrics) collectTenantInventoryMetrics(ctx context.Context, tenantID uuid.UUID) {
	countsByStatus, err := bm.inventoryProvider.GetItemCountsByStatus(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get item counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for status, count := range countsByStatus {
			bm.RecordItemCount(ctx, tenantID, status, count)
		}
	}

	reservationCount, err := bm.inventoryProvider.GetActiveReservationCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get reservation count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordReservationCount(ctx, tenantID, reservationCount)
	}
}

// Stop ends the collection loop. Safe to call more than once.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when no meter was configured.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
