package ports

import (
	"context"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

// InventoryClient is the outbound port to the authoritative stock and catalog source.
type InventoryClient interface {
	// GetStock returns the current stock reading for the product.
	GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error)
	// GetProduct returns the product metadata, or nil when the product no longer exists.
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)
}
