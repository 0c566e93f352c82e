package ports

import (
	"context"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

// OutcomeKind classifies how a cart operation finished.
type OutcomeKind int

const (
	OutcomeApplied OutcomeKind = iota
	OutcomeIgnored
	OutcomeStockExceeded
	OutcomeProductUnavailable
	OutcomeNotInCart
	OutcomeUnexpected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplied:
		return "applied"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStockExceeded:
		return "stock_exceeded"
	case OutcomeProductUnavailable:
		return "product_unavailable"
	case OutcomeNotInCart:
		return "not_in_cart"
	case OutcomeUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Outcome is the result of a cart mutation. Failures carry the user-facing Message;
// Err keeps the underlying cause for logs and traces and is never shown to users.
type Outcome struct {
	Kind    OutcomeKind
	Cart    domain.Cart
	Message string
	Err     error
}

// Failed reports whether the operation was rejected or aborted.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeApplied && o.Kind != OutcomeIgnored
}

// UpdateProductAmount is the input of Service.UpdateProductAmount.
type UpdateProductAmount struct {
	ProductID domain.ProductID
	Amount    int
}

// Service exposes the cart use cases to driving adapters.
type Service interface {
	GetCart(ctx context.Context) domain.Cart
	Summary(ctx context.Context) domain.Summary
	AddProduct(ctx context.Context, id domain.ProductID) Outcome
	RemoveProduct(ctx context.Context, id domain.ProductID) Outcome
	UpdateProductAmount(ctx context.Context, input UpdateProductAmount) Outcome
}
