package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryclient "github.com/Apurer/go-cart-store/internal/clients/http/inventory"
	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
)

func newAdapter(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	api, err := inventoryclient.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return NewClient(api)
}

func TestGetStock_MapsPayload(t *testing.T) {
	adapter := newAdapter(t, map[string]string{"/stock/2": `{"id":2,"amount":5}`})

	stock, err := adapter.GetStock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StockInfo{ProductID: 2, Amount: 5}, stock)
}

func TestGetStock_FillsMissingID(t *testing.T) {
	adapter := newAdapter(t, map[string]string{"/stock/2": `{"amount":5}`})

	stock, err := adapter.GetStock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductID(2), stock.ProductID)
}

func TestGetStock_MissingIsError(t *testing.T) {
	adapter := newAdapter(t, nil)

	_, err := adapter.GetStock(context.Background(), 2)
	assert.ErrorIs(t, err, inventoryclient.ErrNotFound)
}

func TestGetProduct_MapsPayload(t *testing.T) {
	adapter := newAdapter(t, map[string]string{
		"/products/1": `{"id":1,"title":" Shoe ","price":179.9,"image":"a.jpg"}`,
	})

	product, err := adapter.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Shoe", product.Title)
	assert.True(t, decimal.RequireFromString("179.90").Equal(product.Price))
}

func TestGetProduct_AbsentIsNil(t *testing.T) {
	adapter := newAdapter(t, map[string]string{"/products/1": `{}`})

	product, err := adapter.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, product)

	product, err = adapter.GetProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestNilAdapter(t *testing.T) {
	var adapter *Client
	_, err := adapter.GetStock(context.Background(), 1)
	assert.Error(t, err)
	_, err = adapter.GetProduct(context.Background(), 1)
	assert.Error(t, err)
}
