package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	goredis "github.com/go-redis/redis/v8"
)

const (
	defaultPort    = "6379"
	maxPingBackoff = 30 * time.Second
)

// NewClient builds a go-redis client from a redis:// URL or a bare host[:port].
func NewClient(addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		if !strings.Contains(addr, ":") {
			addr = addr + ":" + defaultPort
		}
		opts = &goredis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}
	client := goredis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())
	return client, nil
}

// WaitReady pings until the server answers, backing off exponentially between
// attempts (capped at 30s), or until ctx is done or attempts run out.
func WaitReady(ctx context.Context, client *goredis.Client, attempts int, logger *slog.Logger) error {
	if client == nil {
		return errors.New("redis client is nil")
	}
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		backoff := time.Duration(1<<uint(i)) * 250 * time.Millisecond
		if backoff > maxPingBackoff {
			backoff = maxPingBackoff
		}
		if logger != nil {
			logger.Warn("redis ping failed, retrying",
				slog.Int("attempt", i+1),
				slog.Duration("backoff", backoff),
				slog.String("error", lastErr.Error()))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts: %w", attempts, lastErr)
}
