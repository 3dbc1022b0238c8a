// Package client is a Go client for the shop HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"shop-service/internal/domain"
)

// APIError is a non-2xx response. It unwraps to the matching domain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shop api returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrHasDependents
	case http.StatusUnprocessableEntity:
		return domain.ErrConstraint
	}
	return nil
}

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func New(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do sends the request and decodes a 2xx body into out. Any other status is
// an *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.SetBasicAuth(c.username, c.password)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

// get reports a 404 as nil, nil.
func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var v T
	if err := c.do(ctx, http.MethodGet, path, nil, &v); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func write[T any](ctx context.Context, c *Client, method, path string, in any) (*T, error) {
	var v T
	if err := c.do(ctx, method, path, in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) remove(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	in := map[string]string{"username": username, "email": email, "password_hash": passwordHash}
	return write[domain.User](ctx, c, http.MethodPost, "/users", in)
}

// GetUser returns nil, nil when the user does not exist.
func (c *Client) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	return get[domain.User](ctx, c, fmt.Sprintf("/users/%d", id))
}

func (c *Client) UpdateUser(ctx context.Context, id uint64, patch domain.UserPatch) (*domain.User, error) {
	return write[domain.User](ctx, c, http.MethodPut, fmt.Sprintf("/users/%d", id), patch)
}

func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.remove(ctx, fmt.Sprintf("/users/%d", id))
}

func (c *Client) CreateProduct(ctx context.Context, name string, description *string, price decimal.Decimal) (*domain.Product, error) {
	in := struct {
		Name        string          `json:"name"`
		Description *string         `json:"description,omitempty"`
		Price       decimal.Decimal `json:"price"`
	}{name, description, price}
	return write[domain.Product](ctx, c, http.MethodPost, "/products", in)
}

func (c *Client) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	return get[domain.Product](ctx, c, fmt.Sprintf("/products/%d", id))
}

func (c *Client) UpdateProduct(ctx context.Context, id uint64, patch domain.ProductPatch) (*domain.Product, error) {
	return write[domain.Product](ctx, c, http.MethodPut, fmt.Sprintf("/products/%d", id), patch)
}

func (c *Client) DeleteProduct(ctx context.Context, id uint64) error {
	return c.remove(ctx, fmt.Sprintf("/products/%d", id))
}

func (c *Client) CreateOrder(ctx context.Context, userID uint64, totalAmount decimal.Decimal) (*domain.Order, error) {
	in := struct {
		UserID      uint64          `json:"user_id"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	}{userID, totalAmount}
	return write[domain.Order](ctx, c, http.MethodPost, "/orders", in)
}

func (c *Client) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	return get[domain.Order](ctx, c, fmt.Sprintf("/orders/%d", id))
}

func (c *Client) UpdateOrder(ctx context.Context, id uint64, patch domain.OrderPatch) (*domain.Order, error) {
	return write[domain.Order](ctx, c, http.MethodPut, fmt.Sprintf("/orders/%d", id), patch)
}

func (c *Client) DeleteOrder(ctx context.Context, id uint64) error {
	return c.remove(ctx, fmt.Sprintf("/orders/%d", id))
}

func (c *Client) CreateOrderItem(ctx context.Context, orderID, productID uint64, quantity int) (*domain.OrderItem, error) {
	in := struct {
		ProductID uint64 `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}{productID, quantity}
	return write[domain.OrderItem](ctx, c, http.MethodPost, fmt.Sprintf("/orders/%d/items", orderID), in)
}

func (c *Client) GetOrderItem(ctx context.Context, orderID, itemID uint64) (*domain.OrderItem, error) {
	return get[domain.OrderItem](ctx, c, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID))
}

func (c *Client) UpdateOrderItem(ctx context.Context, orderID, itemID uint64, patch domain.OrderItemPatch) (*domain.OrderItem, error) {
	return write[domain.OrderItem](ctx, c, http.MethodPut, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID), patch)
}

func (c *Client) DeleteOrderItem(ctx context.Context, orderID, itemID uint64) error {
	return c.remove(ctx, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID))
}
