package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// ErrNotFound reports that the inventory service has no record for the requested id.
var ErrNotFound = errors.New("inventory record not found")

const defaultTimeout = 5 * time.Second

// Stock is the inventory service representation of available units.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Product is the inventory service representation of a catalog entry.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// StatusError carries a non-2xx response from the inventory service.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inventory API error: %s", e.Status)
	}
	return fmt.Sprintf("inventory API error: %s: %s", e.Status, e.Body)
}

// Client talks to the inventory HTTP API (GET /stock/{id}, GET /products/{id}).
type Client struct {
	server     *url.URL
	httpClient *http.Client
}

// NewClient instantiates the inventory client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("inventory base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	server, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse inventory base URL: %w", err)
	}
	if server.Scheme == "" || server.Host == "" {
		return nil, fmt.Errorf("inventory base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{server: server, httpClient: httpClient}, nil
}

// GetStock fetches the stock record for a product.
func (c *Client) GetStock(ctx context.Context, id int64) (*Stock, error) {
	var stock Stock
	if err := c.get(ctx, "stock", id, &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

// GetProduct fetches catalog details for a product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.get(ctx, "products", id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, resource string, id int64, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("inventory client not configured")
	}
	req, err := c.newGetRequest(ctx, resource, id)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call inventory API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read inventory response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(body))}
	}
	if isEmptyRecord(body) {
		return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %d: %w", resource, id, err)
	}
	return nil
}

func (c *Client) newGetRequest(ctx context.Context, resource string, id int64) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, err
	}
	operationPath := fmt.Sprintf("./%s/%s", resource, pathParam)
	queryURL, err := c.server.Parse(operationPath)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// isEmptyRecord treats an empty, null, or {} payload as a missing record.
func isEmptyRecord(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil && len(fields) == 0 {
		return true
	}
	return false
}
