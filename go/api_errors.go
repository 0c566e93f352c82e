package cartserver

import (
	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
	apierrors "github.com/Apurer/go-cart-store/internal/shared/errors"
)

// problemForOutcome picks the problem template for a failed outcome kind.
func problemForOutcome(kind ports.OutcomeKind) apierrors.ProblemDetail {
	switch kind {
	case ports.OutcomeStockExceeded:
		return apierrors.ErrStockExceeded
	case ports.OutcomeProductUnavailable:
		return apierrors.ErrProductUnavailable
	case ports.OutcomeNotInCart:
		return apierrors.ErrNotInCart
	default:
		return apierrors.ErrInternal
	}
}

// respondOutcome renders a failed outcome. Only the user-facing message reaches the client.
func (api *CartAPI) respondOutcome(c *gin.Context, outcome ports.Outcome) {
	problem := problemForOutcome(outcome.Kind)
	api.problems.Respond(c, problem.WithDetail(outcome.Message).WithExtension("outcome", outcome.Kind.String()))
}
