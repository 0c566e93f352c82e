package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct = errors.New("product id must be greater than zero")
	ErrInvalidAmount  = errors.New("amount must be at least one")
	ErrDuplicateLine  = errors.New("product already has a line in the cart")
	ErrNotInCart      = errors.New("product not in cart")
)

// ProductID identifies a product in the inventory.
type ProductID int64

// Product is the metadata captured when a line is first added. It is never refreshed.
type Product struct {
	ID    ProductID       `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Line is one product entry in the cart.
type Line struct {
	Product
	Amount int `json:"amount"`
}

// Subtotal is price times amount for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Amount)))
}

// Cart is the ordered, product-unique list of lines. Methods never modify the receiver.
type Cart []Line

// StockInfo is the authoritative maximum quantity available for a product.
type StockInfo struct {
	ProductID ProductID
	Amount    int
}

// Allows reports whether amount is purchasable against this stock reading.
func (s StockInfo) Allows(amount int) bool {
	return amount >= 1 && amount <= s.Amount
}

// Summary is a derived, read-only view of the cart.
type Summary struct {
	Lines    int
	Units    int
	Subtotal decimal.Decimal
}

func (c Cart) Index(id ProductID) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Amount returns the quantity held for id, or 0 when the product has no line.
func (c Cart) Amount(id ProductID) int {
	if i := c.Index(id); i >= 0 {
		return c[i].Amount
	}
	return 0
}

// Append adds a new line with amount 1 at the end of the cart.
func (c Cart) Append(p Product) (Cart, error) {
	if p.ID <= 0 {
		return nil, ErrInvalidProduct
	}
	if c.Index(p.ID) >= 0 {
		return nil, ErrDuplicateLine
	}
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	return append(next, Line{Product: p, Amount: 1}), nil
}

// WithAmount replaces the amount of an existing line in place.
func (c Cart) WithAmount(id ProductID, amount int) (Cart, error) {
	if amount < 1 {
		return nil, ErrInvalidAmount
	}
	i := c.Index(id)
	if i < 0 {
		return nil, ErrNotInCart
	}
	next := c.Clone()
	next[i].Amount = amount
	return next, nil
}

// Without drops the line for id.
func (c Cart) Without(id ProductID) (Cart, error) {
	i := c.Index(id)
	if i < 0 {
		return nil, ErrNotInCart
	}
	next := make(Cart, 0, len(c)-1)
	next = append(next, c[:i]...)
	return append(next, c[i+1:]...), nil
}

func (c Cart) Clone() Cart {
	next := make(Cart, len(c))
	copy(next, c)
	return next
}

// Validate enforces the cart invariants.
func (c Cart) Validate() error {
	seen := make(map[ProductID]struct{}, len(c))
	for _, line := range c {
		if line.ID <= 0 {
			return ErrInvalidProduct
		}
		if line.Amount < 1 {
			return ErrInvalidAmount
		}
		if _, dup := seen[line.ID]; dup {
			return ErrDuplicateLine
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}

func (c Cart) Summary() Summary {
	summary := Summary{Lines: len(c), Subtotal: decimal.Zero}
	for _, line := range c {
		summary.Units += line.Amount
		summary.Subtotal = summary.Subtotal.Add(line.Subtotal())
	}
	return summary
}
