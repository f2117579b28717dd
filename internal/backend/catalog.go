package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"autoparts-storefront/internal/domain"
)

// ListProducts searches the public catalog.
func (c *Client) ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}
	setIfNotEmpty(params, "search", q.Search)
	setIfNotEmpty(params, "category", q.Category)
	setIfNotEmpty(params, "brand", q.Brand)
	setIfNotEmpty(params, "make", q.Make)
	setIfNotEmpty(params, "model", q.Model)
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}

	var out domain.ProductPage
	err := c.do(ctx, http.MethodGet, "/products", params, nil, &out)
	return out, err
}

// GetProduct fetches one listing.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &out)
	return out, err
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
