package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers mounted by NewRouter.
type ApiHandleFunctions struct {
	CartAPI CartAPI
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the cart routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	routes := []Route{
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			Healthz,
		},
		{
			"GetCart",
			http.MethodGet,
			"/v1/cart",
			handleFunctions.CartAPI.GetCart,
		},
		{
			"AddProduct",
			http.MethodPost,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.AddProduct,
		},
		{
			"UpdateProductAmount",
			http.MethodPut,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.UpdateProductAmount,
		},
		{
			"RemoveProduct",
			http.MethodDelete,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.RemoveProduct,
		},
	}
	if handleFunctions.Metrics != nil {
		routes = append(routes, Route{
			"Metrics",
			http.MethodGet,
			"/metrics",
			gin.WrapH(handleFunctions.Metrics),
		})
	}
	return routes
}

// Get /healthz
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
