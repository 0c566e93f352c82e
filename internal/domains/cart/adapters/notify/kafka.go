package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
	"github.com/Apurer/go-cart-store/internal/platform/kafka"
)

var _ ports.Notifier = (*KafkaNotifier)(nil)

const defaultPublishTimeout = 3 * time.Second

// NotificationEvent is the payload published for every failed cart operation.
type NotificationEvent struct {
	EventID    string    `json:"event_id"`
	SessionKey string    `json:"session_key,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaNotifier publishes notifications to a topic. Publish failures are logged, never returned.
// Messages are keyed by session so one cart's notifications stay on a single partition.
type KafkaNotifier struct {
	writer     kafka.MessageWriter
	sessionKey string
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time
	newID      func() string
}

// KafkaOption configures a KafkaNotifier.
type KafkaOption func(*KafkaNotifier)

func WithSessionKey(key string) KafkaOption {
	return func(n *KafkaNotifier) { n.sessionKey = key }
}

func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(n *KafkaNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func WithPublishTimeout(timeout time.Duration) KafkaOption {
	return func(n *KafkaNotifier) {
		if timeout > 0 {
			n.timeout = timeout
		}
	}
}

func NewKafkaNotifier(writer kafka.MessageWriter, opts ...KafkaOption) *KafkaNotifier {
	n := &KafkaNotifier{
		writer:  writer,
		logger:  slog.Default(),
		timeout: defaultPublishTimeout,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

func (n *KafkaNotifier) Notify(ctx context.Context, message string) {
	if n == nil || n.writer == nil {
		return
	}
	event := NotificationEvent{
		EventID:    n.newID(),
		SessionKey: n.sessionKey,
		Message:    message,
		OccurredAt: n.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	key := n.sessionKey
	if key == "" {
		key = event.EventID
	}
	if err := kafka.PublishJSON(ctx, n.writer, key, event); err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "publish cart notification failed",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
	}
}

// Close releases the underlying writer.
func (n *KafkaNotifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
