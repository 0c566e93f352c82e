package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartserver "github.com/Apurer/go-cart-store/go"

	cartobs "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/observability"
	"github.com/Apurer/go-cart-store/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-cart-store/internal/platform/observability"
	apierrors "github.com/Apurer/go-cart-store/internal/shared/errors"
)

const serviceName = "cart-api"

// Run boots the cart HTTP API with observability, storage, and notifications wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	serverMetrics := metrics.NewServerMetrics("api")
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithEnvironment(cfg.Environment),
		platformobservability.WithPrometheusRegisterer(serverMetrics.Registry),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger.With(slog.String("environment", cfg.Environment))

	session, err := OpenSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	cartService := cartobs.New(
		session.Service,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	handlers := cartserver.ApiHandleFunctions{
		CartAPI: cartserver.NewCartAPI(cartService, apierrors.NewResponder(cfg.ProblemBaseURI)),
		Metrics: serverMetrics.Handler(),
	}
	router := cartserver.NewRouter(handlers,
		otelgin.Middleware(serviceName),
		cartserver.MetricsMiddleware(serverMetrics),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("cart API listening", slog.String("addr", srv.Addr), slog.String("storage", session.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("cart API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down cart API")
		return srv.Shutdown(shutdownCtx)
	}
}
