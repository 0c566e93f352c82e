package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-cart-store/internal/app/api"
)

// errOperationFailed marks a rejected cart operation whose message was already printed.
var errOperationFailed = errors.New("cart operation failed")

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errOperationFailed) {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	debug            bool
	inventoryURL     string
	inventoryTimeout string
	storageDir       string
	storageKey       string
	redisAddr        string
	postgresDSN      string
	kafkaBrokers     string
	topic            string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and change a persisted shopping cart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")
	flags.StringVar(&opts.inventoryURL, "inventory-url", "", "inventory API base URL (env INVENTORY_BASE_URL; demo catalog when empty)")
	flags.StringVar(&opts.inventoryTimeout, "inventory-timeout", "", "inventory request timeout (env INVENTORY_TIMEOUT)")
	flags.StringVar(&opts.storageDir, "storage-dir", "", "directory for the cart snapshot file (env CART_STORAGE_DIR)")
	flags.StringVar(&opts.storageKey, "key", "", "cart storage key (env CART_STORAGE_KEY)")
	flags.StringVar(&opts.redisAddr, "redis", "", "redis address for snapshot storage (env REDIS_ADDR)")
	flags.StringVar(&opts.postgresDSN, "postgres", "", "postgres DSN for snapshot storage (env POSTGRES_DSN)")
	flags.StringVar(&opts.kafkaBrokers, "kafka-brokers", "", "comma separated brokers for notifications (env KAFKA_BROKERS)")
	flags.StringVar(&opts.topic, "topic", "", "notifications topic (env NOTIFICATIONS_TOPIC)")

	cmd.AddCommand(
		showCmd(opts),
		addCmd(opts),
		removeCmd(opts),
		setCmd(opts),
	)
	return cmd
}

// config starts from the environment and applies flags the user set explicitly.
func (o *rootOptions) config(cmd *cobra.Command) (api.Config, error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return api.Config{}, err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("inventory-url", &cfg.InventoryBaseURL, o.inventoryURL)
	override("storage-dir", &cfg.StorageDir, o.storageDir)
	override("key", &cfg.StorageKey, o.storageKey)
	override("redis", &cfg.RedisAddr, o.redisAddr)
	override("postgres", &cfg.PostgresDSN, o.postgresDSN)
	override("kafka-brokers", &cfg.KafkaBrokers, o.kafkaBrokers)
	override("topic", &cfg.NotificationsTopic, o.topic)
	if flags.Changed("inventory-timeout") {
		timeout, err := parsePositiveDuration(o.inventoryTimeout)
		if err != nil {
			return api.Config{}, fmt.Errorf("--inventory-timeout: %w", err)
		}
		cfg.InventoryTimeout = timeout
	}
	if cfg.StorageDir == "" && cfg.RedisAddr == "" && cfg.PostgresDSN == "" {
		cfg.StorageDir = defaultStorageDir()
	}
	if err := cfg.Validate(); err != nil {
		return api.Config{}, err
	}
	return cfg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelError
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "go-cart-store")
}
