package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

// ErrMalformedInventory signals an inventory response that contradicts the request.
var ErrMalformedInventory = errors.New("malformed inventory response")

func mismatchError(kind string, want, got domain.ProductID) error {
	return fmt.Errorf("%w: %s for product %d returned product %d", ErrMalformedInventory, kind, want, got)
}
