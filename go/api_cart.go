package cartserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
	apierrors "github.com/Apurer/go-cart-store/internal/shared/errors"
)

// CartAPI implements the cart HTTP surface.
type CartAPI struct {
	service  ports.Service
	problems *apierrors.Responder
}

// NewCartAPI wires dependencies. A nil responder falls back to relative problem types.
func NewCartAPI(service ports.Service, problems *apierrors.Responder) CartAPI {
	if problems == nil {
		problems = apierrors.DefaultResponder
	}
	return CartAPI{service: service, problems: problems}
}

func toCartResponse(cart domain.Cart) Cart {
	items := make([]CartItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, CartItem{
			Id:       int64(line.ID),
			Title:    line.Title,
			Price:    line.Price.StringFixed(2),
			Image:    line.Image,
			Amount:   line.Amount,
			Subtotal: line.Subtotal().StringFixed(2),
		})
	}
	summary := cart.Summary()
	return Cart{
		Items: items,
		Summary: CartSummary{
			Lines: summary.Lines,
			Units: summary.Units,
			Total: summary.Subtotal.StringFixed(2),
		},
	}
}

// Get /v1/cart
// Current cart contents with totals
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(api.service.GetCart(c.Request.Context())))
}

// Post /v1/cart/products/:productId
// Add one unit of a product
func (api *CartAPI) AddProduct(c *gin.Context) {
	id, ok := api.productIDParam(c)
	if !ok {
		return
	}
	api.respond(c, api.service.AddProduct(c.Request.Context(), id))
}

// Put /v1/cart/products/:productId
// Set the amount of a product already in the cart
func (api *CartAPI) UpdateProductAmount(c *gin.Context) {
	id, ok := api.productIDParam(c)
	if !ok {
		return
	}
	var payload UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, "body must be a JSON object with an integer amount")
		return
	}
	outcome := api.service.UpdateProductAmount(c.Request.Context(), ports.UpdateProductAmount{
		ProductID: id,
		Amount:    *payload.Amount,
	})
	api.respond(c, outcome)
}

// Delete /v1/cart/products/:productId
// Remove a product line
func (api *CartAPI) RemoveProduct(c *gin.Context) {
	id, ok := api.productIDParam(c)
	if !ok {
		return
	}
	api.respond(c, api.service.RemoveProduct(c.Request.Context(), id))
}

func (api *CartAPI) respond(c *gin.Context, outcome ports.Outcome) {
	if outcome.Failed() {
		api.respondOutcome(c, outcome)
		return
	}
	cart := outcome.Cart
	if cart == nil {
		cart = api.service.GetCart(c.Request.Context())
	}
	body := toCartResponse(cart)
	body.Outcome = outcome.Kind.String()
	c.JSON(http.StatusOK, body)
}

func (api *CartAPI) productIDParam(c *gin.Context) (domain.ProductID, bool) {
	raw := strings.TrimSpace(c.Param("productId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.problems.ValidationFailed(c, map[string]string{"productId": "must be a positive integer"})
		return 0, false
	}
	return domain.ProductID(id), true
}
