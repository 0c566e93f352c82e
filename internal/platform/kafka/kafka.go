package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by publishers.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Client holds the broker list parsed from a comma separated setting.
type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

// WriterOption adjusts a writer built by NewWriter.
type WriterOption func(*kafka.Writer)

// WithAsync makes WriteMessages return without waiting for the broker.
// Delivery failures are passed to onError instead.
func WithAsync(onError func(err error, messages int)) WriterOption {
	return func(w *kafka.Writer) {
		w.Async = true
		w.Completion = func(messages []kafka.Message, err error) {
			if err != nil && onError != nil {
				onError(err, len(messages))
			}
		}
	}
}

// NewWriter returns a writer that hashes message keys onto partitions of topic.
func (c *Client) NewWriter(topic string, opts ...WriterOption) *kafka.Writer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// PublishJSON marshals payload and writes it under key.
func PublishJSON(ctx context.Context, writer MessageWriter, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()})
}
