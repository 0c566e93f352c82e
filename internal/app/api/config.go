package api

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

const (
	defaultInventoryTimeout   = 5 * time.Second
	defaultNotificationsTopic = "cart.notifications"
	defaultRedisPingAttempts  = 5
)

// Config carries environment-driven settings for the cart processes.
type Config struct {
	Port               string
	Environment        string
	InventoryBaseURL   string
	InventoryTimeout   time.Duration
	StorageKey         string
	StorageDir         string
	RedisAddr          string
	RedisPingAttempts  int
	PostgresDSN        string
	KafkaBrokers       string
	NotificationsTopic string
	ProblemBaseURI     string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		Environment:        envDefault("ENVIRONMENT", "local"),
		InventoryBaseURL:   strings.TrimSpace(os.Getenv("INVENTORY_BASE_URL")),
		InventoryTimeout:   defaultInventoryTimeout,
		StorageKey:         envDefault("CART_STORAGE_KEY", ports.DefaultStorageKey),
		StorageDir:         strings.TrimSpace(os.Getenv("CART_STORAGE_DIR")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPingAttempts:  defaultRedisPingAttempts,
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		KafkaBrokers:       strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		NotificationsTopic: envDefault("NOTIFICATIONS_TOPIC", defaultNotificationsTopic),
		ProblemBaseURI:     strings.TrimSpace(os.Getenv("PROBLEM_BASE_URI")),
	}
	if raw := strings.TrimSpace(os.Getenv("INVENTORY_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("INVENTORY_TIMEOUT must be a positive duration")
		}
		cfg.InventoryTimeout = timeout
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_PING_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("REDIS_PING_ATTEMPTS must be a positive integer")
		}
		cfg.RedisPingAttempts = attempts
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that can also arrive from CLI flags.
func (c Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port")
	}
	if c.InventoryBaseURL != "" {
		u, err := url.Parse(c.InventoryBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("INVENTORY_BASE_URL must be an absolute URL")
		}
	}
	if c.ProblemBaseURI != "" {
		u, err := url.Parse(c.ProblemBaseURI)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("PROBLEM_BASE_URI must be an absolute URL")
		}
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be empty")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
