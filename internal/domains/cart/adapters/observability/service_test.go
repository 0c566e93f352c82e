package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

type stubService struct {
	outcome ports.Outcome
	cart    domain.Cart
	calls   int
}

func (s *stubService) GetCart(context.Context) domain.Cart { return s.cart }

func (s *stubService) Summary(context.Context) domain.Summary { return s.cart.Summary() }

func (s *stubService) AddProduct(context.Context, domain.ProductID) ports.Outcome {
	s.calls++
	return s.outcome
}

func (s *stubService) RemoveProduct(context.Context, domain.ProductID) ports.Outcome {
	s.calls++
	return s.outcome
}

func (s *stubService) UpdateProductAmount(context.Context, ports.UpdateProductAmount) ports.Outcome {
	s.calls++
	return s.outcome
}

type instrumented struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newInstrumented(inner ports.Service) instrumented {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logs := &bytes.Buffer{}
	svc := New(inner,
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return instrumented{svc: svc, spans: spans, reader: reader, logs: logs}
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func mutationCount(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "cart.service.mutations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestAddProduct_RecordsAppliedOutcome(t *testing.T) {
	inner := &stubService{outcome: ports.Outcome{Kind: ports.OutcomeApplied, Cart: domain.Cart{{Product: domain.Product{ID: 1}, Amount: 1}}}}
	h := newInstrumented(inner)

	outcome := h.svc.AddProduct(context.Background(), 1)

	assert.Equal(t, inner.outcome.Kind, outcome.Kind)
	assert.Equal(t, 1, inner.calls)
	spans := h.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "CartService.AddProduct", spans[0].Name())
	value, ok := spanAttr(spans[0], "cart.outcome")
	require.True(t, ok)
	assert.Equal(t, "applied", value.AsString())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, int64(1), mutationCount(t, h.reader))
}

func TestUpdateProductAmount_UnexpectedMarksSpanError(t *testing.T) {
	cause := errors.New("disk full")
	inner := &stubService{outcome: ports.Outcome{Kind: ports.OutcomeUnexpected, Message: "failed to update product amount", Err: cause}}
	h := newInstrumented(inner)

	outcome := h.svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 2, Amount: 3})

	assert.ErrorIs(t, outcome.Err, cause)
	spans := h.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "failed to update product amount", spans[0].Status().Description)
	require.NotEmpty(t, spans[0].Events())
	assert.Contains(t, h.logs.String(), "disk full")
}

func TestRemoveProduct_RejectionLogsWarning(t *testing.T) {
	inner := &stubService{outcome: ports.Outcome{Kind: ports.OutcomeNotInCart, Message: "failed to remove product"}}
	h := newInstrumented(inner)

	h.svc.RemoveProduct(context.Background(), 9)

	assert.Contains(t, h.logs.String(), `"level":"WARN"`)
	assert.Contains(t, h.logs.String(), "not_in_cart")
	assert.Equal(t, int64(1), mutationCount(t, h.reader))
}

func TestReads_PassThrough(t *testing.T) {
	cart := domain.Cart{{Product: domain.Product{ID: 1, Price: decimal.RequireFromString("10.50")}, Amount: 2}}
	h := newInstrumented(&stubService{cart: cart})

	assert.Equal(t, cart, h.svc.GetCart(context.Background()))
	summary := h.svc.Summary(context.Background())
	assert.True(t, decimal.RequireFromString("21").Equal(summary.Subtotal))
	assert.Len(t, h.spans.Ended(), 2)
	assert.Equal(t, int64(0), mutationCount(t, h.reader))
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(&stubService{outcome: ports.Outcome{Kind: ports.OutcomeIgnored}})
	assert.NotPanics(t, func() {
		svc.UpdateProductAmount(context.Background(), ports.UpdateProductAmount{ProductID: 1})
	})
}
