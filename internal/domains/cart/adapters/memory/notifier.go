package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier records every message it receives.
type Notifier struct {
	mu       sync.Mutex
	messages []string
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

// Messages returns a copy of the recorded messages in arrival order.
func (n *Notifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// Reset drops recorded messages.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = nil
}
