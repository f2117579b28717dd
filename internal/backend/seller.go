package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"autoparts-storefront/internal/domain"
)

// SellerDashboard returns the signed-in seller's headline metrics.
func (c *Client) SellerDashboard(ctx context.Context) (domain.DashboardMetrics, error) {
	var out domain.DashboardMetrics
	err := c.do(ctx, http.MethodGet, "/api/seller/dashboard", nil, nil, &out)
	return out, err
}

// SellerProducts pages through the seller's own listings.
func (c *Client) SellerProducts(ctx context.Context, page, size int, search string) (domain.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	setIfNotEmpty(params, "search", search)

	var out domain.ProductPage
	err := c.do(ctx, http.MethodGet, "/api/seller/products", params, nil, &out)
	return out, err
}

// DeleteSellerProduct removes one of the seller's listings.
func (c *Client) DeleteSellerProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/seller/products/%d", id), nil, nil, nil)
}

// SellerAnalytics returns the backend's analytics document for period.
func (c *Client) SellerAnalytics(ctx context.Context, period string) (map[string]any, error) {
	params := url.Values{}
	setIfNotEmpty(params, "period", period)

	out := map[string]any{}
	err := c.do(ctx, http.MethodGet, "/api/seller/analytics", params, nil, &out)
	return out, err
}

// SellerProduct returns one of the seller's listings for editing.
func (c *Client) SellerProduct(ctx context.Context, id int64) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/seller/products/%d", id), nil, nil, &out)
	return out, err
}

// CreateSellerProduct publishes a new listing with its images.
func (c *Client) CreateSellerProduct(ctx context.Context, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	return c.sendProduct(ctx, http.MethodPost, "/api/seller/products", form, images)
}

// UpdateSellerProduct replaces listing id. Images not named in
// form.ExistingImages or uploaded again are dropped by the backend.
func (c *Client) UpdateSellerProduct(ctx context.Context, id int64, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	return c.sendProduct(ctx, http.MethodPut, fmt.Sprintf("/api/seller/products/%d", id), form, images)
}

// SellerOrder returns an order placed on one of the seller's listings.
func (c *Client) SellerOrder(ctx context.Context, id int64) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/seller/orders/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) sendProduct(ctx context.Context, method, path string, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	body, contentType, err := productMultipart(form, images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	var out domain.Product
	err = c.send(ctx, method, path, nil, body, contentType, &out)
	return out, err
}

// productMultipart encodes the listing the way the backend's form endpoint
// reads it: one field per attribute, structured values as JSON, kept image
// URLs as repeated existingImages and new files as repeated images parts.
func productMultipart(form domain.ProductForm, images []domain.ImageUpload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"title", form.Title},
		{"sku", form.SKU},
		{"description", form.Description},
		{"category", form.Category},
		{"price", strconv.FormatFloat(form.Price, 'f', -1, 64)},
		{"stock", strconv.Itoa(form.Stock)},
		{"status", form.Status},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if len(form.CompatibleVehicles) > 0 {
		raw, err := json.Marshal(form.CompatibleVehicles)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField("compatibleVehicles", string(raw)); err != nil {
			return nil, "", err
		}
	}
	for _, u := range form.ExistingImages {
		if err := w.WriteField("existingImages", u); err != nil {
			return nil, "", err
		}
	}
	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
