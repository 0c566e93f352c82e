package inventory

import (
	"context"
	"errors"

	inventoryclient "github.com/Apurer/go-cart-store/internal/clients/http/inventory"
	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

// Client implements the inventory port on top of the inventory HTTP API.
type Client struct {
	api *inventoryclient.Client
}

// NewClient wires an inventory HTTP client into the cart inventory port.
func NewClient(api *inventoryclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	if c == nil || c.api == nil {
		return domain.StockInfo{}, errors.New("inventory adapter not configured")
	}
	stock, err := c.api.GetStock(ctx, int64(id))
	if err != nil {
		return domain.StockInfo{}, err
	}
	return ToStockInfo(id, stock), nil
}

// GetProduct reports a product the inventory no longer knows as nil without error.
func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("inventory adapter not configured")
	}
	product, err := c.api.GetProduct(ctx, int64(id))
	if errors.Is(err, inventoryclient.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToProduct(id, product), nil
}

var _ ports.InventoryClient = (*Client)(nil)
