package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = (*WriterNotifier)(nil)
	_ ports.Notifier = Fanout{}
)

// LogNotifier emits each message as a warning through slog.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.logger.LogAttrs(ctx, slog.LevelWarn, "cart notification", slog.String("message", message))
}

// WriterNotifier prints one line per message, for terminal sessions.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (n *WriterNotifier) Notify(_ context.Context, message string) {
	if n == nil || n.out == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "error: %s\n", message)
}

// Fanout delivers every message to each notifier in order.
type Fanout []ports.Notifier

func NewFanout(notifiers ...ports.Notifier) Fanout {
	out := make(Fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (f Fanout) Notify(ctx context.Context, message string) {
	for _, n := range f {
		n.Notify(ctx, message)
	}
}
