package inventory

import (
	"strings"

	inventoryclient "github.com/Apurer/go-cart-store/internal/clients/http/inventory"
	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

// ToStockInfo converts the inventory stock payload. A missing id is filled with the requested one.
func ToStockInfo(requested domain.ProductID, stock *inventoryclient.Stock) domain.StockInfo {
	if stock == nil {
		return domain.StockInfo{ProductID: requested}
	}
	id := domain.ProductID(stock.ID)
	if id == 0 {
		id = requested
	}
	return domain.StockInfo{ProductID: id, Amount: stock.Amount}
}

// ToProduct converts the inventory catalog payload into the cart's product snapshot.
func ToProduct(requested domain.ProductID, product *inventoryclient.Product) *domain.Product {
	if product == nil {
		return nil
	}
	id := domain.ProductID(product.ID)
	if id == 0 {
		id = requested
	}
	return &domain.Product{
		ID:    id,
		Title: strings.TrimSpace(product.Title),
		Price: product.Price,
		Image: strings.TrimSpace(product.Image),
	}
}
