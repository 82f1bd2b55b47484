package api

// Client for the print shop HTTP API.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"printshop-bot/internal/order"
	"printshop-bot/internal/pricing"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type Quote struct {
	Ready     bool              `json:"ready"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Quote(ctx context.Context, cfg pricing.ItemConfig) (*Quote, error) {
	var q Quote
	if err := c.do(ctx, http.MethodPost, "/api/quote", cfg, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) Pricing(ctx context.Context) (*pricing.Table, error) {
	var t pricing.Table
	if err := c.do(ctx, http.MethodGet, "/api/pricing", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTierPrice(ctx context.Context, size pricing.PaperSize, quality pricing.PrintQuality, tierIndex int, sides pricing.Sidedness, price pricing.Money) (*pricing.Table, error) {
	body := map[string]any{
		"paper_size":    size,
		"print_quality": quality,
		"tier_index":    tierIndex,
		"sides":         sides,
		"price":         price,
	}
	var t pricing.Table
	if err := c.do(ctx, http.MethodPut, "/api/pricing/tiers", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateServicePrice(ctx context.Context, service pricing.Service, price pricing.Money) (*pricing.Table, error) {
	body := map[string]any{"service": service, "price": price}
	var t pricing.Table
	if err := c.do(ctx, http.MethodPut, "/api/pricing/services", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) SavePricing(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/pricing/save", nil, nil)
}

// Orders lists all orders, or those of one customer when phone is set.
func (c *Client) Orders(ctx context.Context, phone string) ([]order.Order, error) {
	path := "/api/orders"
	if phone != "" {
		path += "?phone=" + url.QueryEscape(phone)
	}
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	var o order.Order
	body := map[string]order.Status{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id)+"/status", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		c.logger.Debug("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
