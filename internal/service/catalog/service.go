// Package catalog browses marketplace listings and moves them into a
// client's cart or comparison list.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"autoparts-storefront/internal/domain"
)

// DefaultPageSize matches the product grid.
const DefaultPageSize = 12

type productAPI interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type cartAdder interface {
	Add(ctx context.Context, item domain.CartLineItem) (domain.Cart, error)
}

type comparisonAdder interface {
	Add(ctx context.Context, item domain.ComparisonItem) ([]domain.ComparisonItem, error)
}

// Service reads the catalog.
type Service struct {
	api productAPI
}

// New builds a Service.
func New(api productAPI) *Service {
	return &Service{api: api}
}

// List searches the catalog.
func (s *Service) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	page, err := s.api.ListProducts(ctx, q)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	if page.Content == nil {
		page.Content = []domain.Product{}
	}
	return page, nil
}

// Get fetches one listing.
func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// AddToCart fetches listing id and adds qty units of it to cart.
func (s *Service) AddToCart(ctx context.Context, cart cartAdder, id int64, qty int) (domain.Cart, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Cart{}, err
	}
	return cart.Add(ctx, LineItem(p, qty))
}

// AddToComparison fetches listing id and pins it for comparison.
func (s *Service) AddToComparison(ctx context.Context, set comparisonAdder, id int64) ([]domain.ComparisonItem, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return set.Add(ctx, ComparisonItem(p))
}

// LineItem snapshots p into a cart line.
func LineItem(p domain.Product, qty int) domain.CartLineItem {
	return domain.CartLineItem{
		ID:       p.ID,
		Name:     p.Title,
		Price:    p.Price,
		Quantity: qty,
		Image:    primaryImage(p),
		Seller:   p.SellerName,
		SKU:      p.SKU,
	}
}

// ComparisonItem snapshots p into a comparison entry.
func ComparisonItem(p domain.Product) domain.ComparisonItem {
	return domain.ComparisonItem{
		ID:       p.ID,
		Name:     p.Title,
		Price:    p.Price,
		Image:    primaryImage(p),
		Brand:    p.Brand,
		Category: p.Category,
		Specs:    p.Specs,
	}
}

func primaryImage(p domain.Product) string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
