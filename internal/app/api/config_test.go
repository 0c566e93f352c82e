package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCartEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "INVENTORY_BASE_URL", "INVENTORY_TIMEOUT", "CART_STORAGE_KEY",
		"CART_STORAGE_DIR", "REDIS_ADDR", "REDIS_PING_ATTEMPTS", "POSTGRES_DSN", "KAFKA_BROKERS",
		"NOTIFICATIONS_TOPIC", "PROBLEM_BASE_URI",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCartEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.InventoryTimeout)
	assert.Equal(t, "@RocketShoes:cart", cfg.StorageKey)
	assert.Equal(t, "cart.notifications", cfg.NotificationsTopic)
	assert.Equal(t, defaultRedisPingAttempts, cfg.RedisPingAttempts)
	assert.Empty(t, cfg.InventoryBaseURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearCartEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("INVENTORY_BASE_URL", "http://localhost:3333")
	t.Setenv("INVENTORY_TIMEOUT", "750ms")
	t.Setenv("CART_STORAGE_KEY", "session-1")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("PROBLEM_BASE_URI", "https://problems.cart.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:3333", cfg.InventoryBaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.InventoryTimeout)
	assert.Equal(t, "session-1", cfg.StorageKey)
	assert.Equal(t, "kafka:9092", cfg.KafkaBrokers)
	assert.Equal(t, "https://problems.cart.example", cfg.ProblemBaseURI)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"timeout":  {"INVENTORY_TIMEOUT", "soon"},
		"negative": {"INVENTORY_TIMEOUT", "-1s"},
		"port":     {"PORT", "http"},
		"base url": {"INVENTORY_BASE_URL", "localhost:3333/api"},
		"attempts": {"REDIS_PING_ATTEMPTS", "0"},
		"problems": {"PROBLEM_BASE_URI", "/problems"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearCartEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
