package ports

import "context"

// Notifier surfaces user-facing outcome messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NoopNotifier is a safe default when callers do not surface messages.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) {}
