package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.CartStorage = (*Storage)(nil)

// Storage keeps the cart snapshot as a JSON file, one file per storage key.
type Storage struct {
	dir string
	key string
}

type Option func(*Storage)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Storage) {
		if key = strings.TrimSpace(key); key != "" {
			s.key = key
		}
	}
}

func NewStorage(dir string, opts ...Option) *Storage {
	s := &Storage{dir: filepath.Clean(dir), key: ports.DefaultStorageKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path is the snapshot file location for the configured key.
func (s *Storage) Path() string {
	sum := sha256.Sum256([]byte(s.key))
	return filepath.Join(s.dir, "cart-"+hex.EncodeToString(sum[:8])+".json")
}

func (s *Storage) Load(ctx context.Context) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	return domain.DecodeSnapshot(data)
}

// Save writes to a temp file and renames it over the snapshot so readers never
// observe a partial write.
func (s *Storage) Save(ctx context.Context, cart domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := domain.EncodeSnapshot(cart)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("replace cart snapshot: %w", err)
	}
	return nil
}
