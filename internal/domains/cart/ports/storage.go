package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

// DefaultStorageKey is the fixed key the cart snapshot is stored under.
const DefaultStorageKey = "@RocketShoes:cart"

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// CartStorage persists complete cart snapshots under a single key.
type CartStorage interface {
	// Load returns the persisted cart or ErrSnapshotNotFound.
	Load(ctx context.Context) (domain.Cart, error)
	// Save overwrites the persisted snapshot wholesale.
	Save(ctx context.Context, cart domain.Cart) error
}
