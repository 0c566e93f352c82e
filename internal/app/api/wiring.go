package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	inventoryclient "github.com/Apurer/go-cart-store/internal/clients/http/inventory"
	cartinventory "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/external/inventory"
	cartmemory "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/memory"
	cartnotify "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/notify"
	cartfile "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/persistence/file"
	cartpostgres "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/go-cart-store/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/go-cart-store/internal/domains/cart/application"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
	platformkafka "github.com/Apurer/go-cart-store/internal/platform/kafka"
	"github.com/Apurer/go-cart-store/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-cart-store/internal/platform/postgres"
	platformredis "github.com/Apurer/go-cart-store/internal/platform/redis"
)

// Session is an opened cart plus the resources backing it.
type Session struct {
	Service *cartapp.Service
	Backend string
	closers []func()
}

// Close releases storage connections and notification writers in reverse order.
func (s *Session) Close() {
	if s == nil {
		return
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenSession wires inventory, storage, and notifiers from cfg and restores the persisted cart.
// Extra notifiers receive every failure message alongside the configured ones.
func OpenSession(ctx context.Context, cfg Config, logger *slog.Logger, extra ...ports.Notifier) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session := &Session{}

	inventory, err := buildInventory(cfg, logger)
	if err != nil {
		return nil, err
	}
	storage, backend, closeStorage := buildStorage(ctx, cfg, logger)
	session.Backend = backend
	session.closers = append(session.closers, closeStorage)

	notifiers := append([]ports.Notifier{cartnotify.NewLogNotifier(logger)}, extra...)
	if kafkaNotifier := buildKafkaNotifier(cfg, logger); kafkaNotifier != nil {
		notifiers = append(notifiers, kafkaNotifier)
		session.closers = append(session.closers, func() {
			if err := kafkaNotifier.Close(); err != nil {
				logger.Warn("failed to close notification writer", slog.String("error", err.Error()))
			}
		})
	}

	svc, err := cartapp.Open(ctx, inventory, storage, cartapp.WithNotifier(cartnotify.NewFanout(notifiers...)))
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("restore cart from %s storage: %w", backend, err)
	}
	session.Service = svc
	logger.Info("cart session opened",
		slog.String("storage", backend),
		slog.String("storage_key", cfg.StorageKey),
		slog.Int("lines", len(svc.GetCart(ctx))))
	return session, nil
}

func buildInventory(cfg Config, logger *slog.Logger) (ports.InventoryClient, error) {
	if cfg.InventoryBaseURL == "" {
		logger.Warn("INVENTORY_BASE_URL not set, using the in-memory demo inventory")
		return cartmemory.NewDemoInventory(), nil
	}
	client, err := inventoryclient.NewClient(cfg.InventoryBaseURL, &http.Client{Timeout: cfg.InventoryTimeout})
	if err != nil {
		return nil, fmt.Errorf("build inventory client: %w", err)
	}
	logger.Info("inventory configured", slog.String("base_url", cfg.InventoryBaseURL), slog.Duration("timeout", cfg.InventoryTimeout))
	return cartinventory.NewClient(client), nil
}

// buildStorage picks the first reachable backend: postgres, redis, file, then memory.
func buildStorage(ctx context.Context, cfg Config, logger *slog.Logger) (ports.CartStorage, string, func()) {
	if cfg.PostgresDSN != "" {
		db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
		if db != nil {
			if err := migrations.Run(db); err != nil {
				logger.Warn("failed to migrate cart schema, falling back to the next cart storage backend", slog.String("error", err.Error()))
				cleanup()
			} else {
				return cartpostgres.NewStorage(db, cfg.StorageKey), "postgres", cleanup
			}
		}
	}
	if cfg.RedisAddr != "" {
		if storage, cleanup, err := buildRedisStorage(ctx, cfg, logger); err != nil {
			logger.Warn("redis unavailable, falling back to the next cart storage backend", slog.String("error", err.Error()))
		} else {
			return storage, "redis", cleanup
		}
	}
	if cfg.StorageDir != "" {
		return cartfile.NewStorage(cfg.StorageDir, cartfile.WithKey(cfg.StorageKey)), "file", func() {}
	}
	logger.Warn("no persistent cart storage configured, cart will not survive restarts")
	return cartmemory.NewStorage(cfg.StorageKey), "memory", func() {}
}

func buildRedisStorage(ctx context.Context, cfg Config, logger *slog.Logger) (ports.CartStorage, func(), error) {
	client, err := platformredis.NewClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	if err := platformredis.WaitReady(ctx, client, cfg.RedisPingAttempts, logger); err != nil {
		_ = client.Close()
		return nil, nil, errors.Join(errors.New("redis ping failed"), err)
	}
	logger.Info("redis connection established", slog.String("addr", client.Options().Addr))
	return cartredis.NewStorage(client, cfg.StorageKey), func() { _ = client.Close() }, nil
}

func buildKafkaNotifier(cfg Config, logger *slog.Logger) *cartnotify.KafkaNotifier {
	client := platformkafka.NewClient(cfg.KafkaBrokers)
	if !client.Enabled() {
		return nil
	}
	logger.Info("publishing cart notifications to kafka",
		slog.Any("brokers", client.Brokers),
		slog.String("topic", cfg.NotificationsTopic))
	return cartnotify.NewKafkaNotifier(
		client.NewWriter(cfg.NotificationsTopic, platformkafka.WithAsync(func(err error, messages int) {
			logger.Error("cart notification delivery failed",
				slog.String("topic", cfg.NotificationsTopic),
				slog.Int("messages", messages),
				slog.String("error", err.Error()))
		})),
		cartnotify.WithSessionKey(cfg.StorageKey),
		cartnotify.WithKafkaLogger(logger),
	)
}
