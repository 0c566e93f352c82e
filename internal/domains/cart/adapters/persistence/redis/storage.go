package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.CartStorage = (*Storage)(nil)

// Storage keeps the cart snapshot under a single Redis string key.
type Storage struct {
	client goredis.UniversalClient
	key    string
}

// NewStorage wires a Redis-backed snapshot store. Caller manages the client lifecycle.
func NewStorage(client goredis.UniversalClient, key string) *Storage {
	if key == "" {
		key = ports.DefaultStorageKey
	}
	return &Storage{client: client, key: key}
}

func (s *Storage) Load(ctx context.Context) (domain.Cart, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", s.key, err)
	}
	return domain.DecodeSnapshot(data)
}

func (s *Storage) Save(ctx context.Context, cart domain.Cart) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	data, err := domain.EncodeSnapshot(cart)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key, err)
	}
	return nil
}

func (s *Storage) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis cart storage not configured")
	}
	return nil
}
