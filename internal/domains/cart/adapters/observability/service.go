package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) GetCart(ctx context.Context) domain.Cart {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	cart := s.inner.GetCart(ctx)
	span.SetAttributes(attribute.Int("cart.lines", len(cart)))
	return cart
}

func (s *Service) Summary(ctx context.Context) domain.Summary {
	ctx, span := s.tracer.Start(ctx, "CartService.Summary")
	defer span.End()

	summary := s.inner.Summary(ctx)
	span.SetAttributes(
		attribute.Int("cart.lines", summary.Lines),
		attribute.Int("cart.units", summary.Units),
		attribute.String("cart.subtotal", summary.Subtotal.StringFixed(2)),
	)
	return summary
}

func (s *Service) AddProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	ctx, span := s.tracer.Start(ctx, "CartService.AddProduct",
		trace.WithAttributes(attribute.Int64("cart.product_id", int64(id))))
	defer span.End()

	s.logInfo(ctx, "adding product", slog.Int64("cart.product_id", int64(id)))
	outcome := s.inner.AddProduct(ctx, id)
	return s.finish(ctx, span, "add_product", outcome, slog.Int64("cart.product_id", int64(id)))
}

func (s *Service) RemoveProduct(ctx context.Context, id domain.ProductID) ports.Outcome {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveProduct",
		trace.WithAttributes(attribute.Int64("cart.product_id", int64(id))))
	defer span.End()

	s.logInfo(ctx, "removing product", slog.Int64("cart.product_id", int64(id)))
	outcome := s.inner.RemoveProduct(ctx, id)
	return s.finish(ctx, span, "remove_product", outcome, slog.Int64("cart.product_id", int64(id)))
}

func (s *Service) UpdateProductAmount(ctx context.Context, input ports.UpdateProductAmount) ports.Outcome {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateProductAmount",
		trace.WithAttributes(
			attribute.Int64("cart.product_id", int64(input.ProductID)),
			attribute.Int("cart.amount", input.Amount),
		))
	defer span.End()

	s.logInfo(ctx, "updating product amount",
		slog.Int64("cart.product_id", int64(input.ProductID)), slog.Int("cart.amount", input.Amount))
	outcome := s.inner.UpdateProductAmount(ctx, input)
	return s.finish(ctx, span, "update_product_amount", outcome,
		slog.Int64("cart.product_id", int64(input.ProductID)), slog.Int("cart.amount", input.Amount))
}

func (s *Service) finish(ctx context.Context, span trace.Span, operation string, outcome ports.Outcome, attrs ...slog.Attr) ports.Outcome {
	kind := outcome.Kind.String()
	span.SetAttributes(attribute.String("cart.outcome", kind))
	s.metrics.recordMutation(ctx, operation, kind)
	attrs = append(attrs, slog.String("cart.outcome", kind))
	switch {
	case outcome.Kind == ports.OutcomeUnexpected:
		if outcome.Err != nil {
			span.RecordError(outcome.Err)
		}
		span.SetStatus(codes.Error, outcome.Message)
		s.logError(ctx, "cart operation failed", outcome.Err, attrs...)
	case outcome.Failed():
		span.SetStatus(codes.Error, outcome.Message)
		s.logWarn(ctx, "cart operation rejected", attrs...)
	default:
		s.logInfo(ctx, "cart operation completed", append(attrs, slog.Int("cart.lines", len(outcome.Cart)))...)
	}
	return outcome
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of cart mutations by outcome"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, operation, outcome string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cart.operation", operation),
			attribute.String("cart.outcome", outcome),
		))
	}
}

var _ ports.Service = (*Service)(nil)
