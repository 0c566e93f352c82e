package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.CartStorage = (*Storage)(nil)

// Storage is an in-memory snapshot store. It keeps encoded bytes so a reload goes
// through the same codec as the durable backends.
type Storage struct {
	mu        sync.RWMutex
	key       string
	snapshots map[string][]byte
}

func NewStorage(key string) *Storage {
	if key == "" {
		key = ports.DefaultStorageKey
	}
	return &Storage{key: key, snapshots: map[string][]byte{}}
}

func (s *Storage) Load(_ context.Context) (domain.Cart, error) {
	s.mu.RLock()
	data, ok := s.snapshots[s.key]
	s.mu.RUnlock()
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return domain.DecodeSnapshot(data)
}

func (s *Storage) Save(_ context.Context, cart domain.Cart) error {
	data, err := domain.EncodeSnapshot(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[s.key] = data
	return nil
}

// Raw returns the stored bytes for the configured key.
func (s *Storage) Raw() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[s.key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}
