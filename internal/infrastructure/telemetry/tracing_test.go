package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/consignmentgenie/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordedSpans swaps in a recording global tracer provider for the test.
// StartSpan resolves its tracer globally, so the recorder has to be
// installed there.
func recordedSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]interface{} {
	out := make(map[string]interface{})
	for _, attr := range span.Attributes() {
		out[string(attr.Key)] = attr.Value.AsInterface()
	}
	return out
}

func TestStartSpan(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "statement.generate")
	require.NotNil(t, span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "statement.generate", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartSpanWithOptions(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "stripe.create_payment_intent",
		telemetry.WithAttribute(telemetry.SpanAttrOrderNumber, "ORD-2026-0042"),
		telemetry.WithSpanKind(trace.SpanKindClient),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, "ORD-2026-0042", spanAttrs(spans[0])[telemetry.SpanAttrOrderNumber])
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "payout", "create")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "payout.create", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "payout.create")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProviderID, "prv-0042",
		"transaction_count", 17,
		"partial", false,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "prv-0042", attrs[telemetry.SpanAttrProviderID])
	assert.Equal(t, int64(17), attrs["transaction_count"])
	assert.Equal(t, false, attrs["partial"])
}

func TestSetAttributesUUIDValue(t *testing.T) {
	sr := recordedSpans(t)

	payoutID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "payout.mark_paid")
	telemetry.SetAttributes(span, telemetry.SpanAttrPayoutID, payoutID)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	// UUIDs go through fmt.Stringer and land as strings.
	assert.Equal(t, payoutID.String(), spanAttrs(spans[0])[telemetry.SpanAttrPayoutID])
}

func TestSetAttributesMalformedPairs(t *testing.T) {
	sr := recordedSpans(t)

	t.Run("trailing key without value is dropped", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "checkout.checkout")
		telemetry.SetAttributes(span,
			"order_id", "ord-1",
			"line_count", 3,
			"orphan",
		)
		span.End()
	})

	t.Run("non-string key is skipped", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "checkout.checkout")
		telemetry.SetAttributes(span,
			"order_id", "ord-2",
			42, "not-a-key",
		)
		span.End()
	})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Len(t, spans[0].Attributes(), 2)
	assert.Len(t, spans[1].Attributes(), 1)
}

func TestRecordError(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "checkout.checkout")
	telemetry.RecordError(span, errors.New("item CG-0042 was sold while checking out"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "item CG-0042 was sold while checking out", spans[0].Status().Description)

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "exception", events[0].Name)
}

func TestRecordErrorNoops(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "payout.create")
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("no span"))
	})
}

func TestAddEvent(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "payout.mark_paid")
	telemetry.AddEvent(span, "payout_settled",
		telemetry.SpanAttrPayoutStatus, "PAID",
		"transaction_count", 12,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "payout_settled", events[0].Name)

	attrs := make(map[string]interface{})
	for _, attr := range events[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "PAID", attrs[telemetry.SpanAttrPayoutStatus])
	assert.Equal(t, int64(12), attrs["transaction_count"])
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "key", "value")
		telemetry.AddEvent(nil, "cart_cleared", "item_count", 2)
	})
}

func TestNestedSpans(t *testing.T) {
	sr := recordedSpans(t)

	ctx, parent := telemetry.StartSpan(context.Background(), "checkout.checkout")
	_, child := telemetry.StartSpan(ctx, "order.number")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)

	byName := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range spans {
		byName[s.Name()] = s
	}
	parentSpan, ok := byName["checkout.checkout"]
	require.True(t, ok)
	childSpan, ok := byName["order.number"]
	require.True(t, ok)

	assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
	assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
}

func TestAttributeConversions(t *testing.T) {
	sr := recordedSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "report.sales")
	telemetry.SetAttributes(span,
		"channel", "ONLINE",
		"item_count", 42,
		"row_count", int64(100),
		"total", 3.14,
		"include_tax", true,
		"skus", []string{"CG-0001", "CG-0002"},
		"pages", []int{1, 2, 3},
		"offsets", []int64{10, 20},
		"rates", []float64{0.4, 0.6},
		"flags", []bool{true, false},
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrs := spans[0].Attributes()
	assert.Len(t, attrs, 10)

	types := make(map[string]attribute.Type)
	for _, attr := range attrs {
		types[string(attr.Key)] = attr.Value.Type()
	}
	assert.Equal(t, attribute.STRING, types["channel"])
	assert.Equal(t, attribute.INT64, types["item_count"])
	assert.Equal(t, attribute.FLOAT64, types["total"])
	assert.Equal(t, attribute.STRINGSLICE, types["skus"])
	assert.Equal(t, attribute.BOOLSLICE, types["flags"])
}
