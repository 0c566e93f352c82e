package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

var _ ports.InventoryClient = (*Inventory)(nil)

// ErrUnknownStock is returned when no stock reading exists for a product.
var ErrUnknownStock = errors.New("stock not found")

// Inventory is an in-memory catalog and stock source for development and tests.
type Inventory struct {
	mu       sync.RWMutex
	stock    map[domain.ProductID]int
	products map[domain.ProductID]domain.Product
}

func NewInventory() *Inventory {
	return &Inventory{
		stock:    map[domain.ProductID]int{},
		products: map[domain.ProductID]domain.Product{},
	}
}

// NewDemoInventory returns an inventory seeded with a small sneaker catalog.
func NewDemoInventory() *Inventory {
	inv := NewInventory()
	seed := []struct {
		product domain.Product
		stock   int
	}{
		{domain.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"}, 3},
		{domain.Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5},
		{domain.Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 2},
		{domain.Product{ID: 5, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5},
		{domain.Product{ID: 6, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 10},
	}
	for _, item := range seed {
		inv.PutProduct(item.product)
		inv.SetStock(item.product.ID, item.stock)
	}
	return inv
}

func (i *Inventory) SetStock(id domain.ProductID, amount int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stock[id] = amount
}

func (i *Inventory) PutProduct(p domain.Product) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.products[p.ID] = p
}

// DeleteProduct removes the catalog entry; stock readings are kept.
func (i *Inventory) DeleteProduct(id domain.ProductID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.products, id)
}

func (i *Inventory) GetStock(_ context.Context, id domain.ProductID) (domain.StockInfo, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	amount, ok := i.stock[id]
	if !ok {
		return domain.StockInfo{}, fmt.Errorf("%w: product %d", ErrUnknownStock, id)
	}
	return domain.StockInfo{ProductID: id, Amount: amount}, nil
}

func (i *Inventory) GetProduct(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	product, ok := i.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}
