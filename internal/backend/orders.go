package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"autoparts-storefront/internal/domain"
)

// ListOrders pages through the caller's orders. Sellers see the orders for
// their listings, everyone else their purchases.
func (c *Client) ListOrders(ctx context.Context, role domain.Role, q domain.OrderQuery) (domain.OrderPage, error) {
	path := "/orders/buyer"
	if role == domain.RoleSeller {
		path = "/orders/seller"
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		params.Set("sortDir", q.SortDir)
	}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}

	var out domain.OrderPage
	err := c.do(ctx, http.MethodGet, path, params, nil, &out)
	return out, err
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &out)
	return out, err
}

// CreateOrder submits the order built from a cart.
func (c *Client) CreateOrder(ctx context.Context, in domain.OrderCreationRequest) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPost, "/orders", nil, in, &out)
	return out, err
}

// UpdateOrderStatus asks the backend to move an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	var out domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/status", id), nil, body, &out)
	return out, err
}

// InitiatePayment starts payment for an existing order.
func (c *Client) InitiatePayment(ctx context.Context, in domain.PaymentRequest) (domain.PaymentResult, error) {
	var out domain.PaymentResult
	err := c.do(ctx, http.MethodPost, "/payments/initiate", nil, in, &out)
	return out, err
}
