// Package seller backs the seller back-office: dashboard, listings and
// incoming orders.
package seller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/orderstatus"
	"autoparts-storefront/internal/service/order"
	"autoparts-storefront/internal/service/session"
)

// DeleteProductPrompt is asked before a listing is removed.
const DeleteProductPrompt = "Are you sure you want to delete this product?"

const defaultPageSize = 10

// ErrInvalidProduct wraps listing form validation failures.
var ErrInvalidProduct = errors.New("invalid product")

type sellerAPI interface {
	SellerDashboard(ctx context.Context) (domain.DashboardMetrics, error)
	SellerProducts(ctx context.Context, page, size int, search string) (domain.ProductPage, error)
	DeleteSellerProduct(ctx context.Context, id int64) error
	SellerAnalytics(ctx context.Context, period string) (map[string]any, error)
	SellerProduct(ctx context.Context, id int64) (domain.Product, error)
	CreateSellerProduct(ctx context.Context, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error)
	UpdateSellerProduct(ctx context.Context, id int64, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error)
	SellerOrder(ctx context.Context, id int64) (domain.Order, error)
}

type orderService interface {
	List(ctx context.Context, p session.Principal, page, size int, status domain.OrderStatus) (domain.OrderPage, error)
	UpdateStatus(ctx context.Context, p session.Principal, id int64, status domain.OrderStatus, confirm order.Confirmer) (order.Result, error)
}

// Service is the seller back-office.
type Service struct {
	api      sellerAPI
	orders   orderService
	validate *validator.Validate
}

// New builds a Service. Order listing and status changes go through orders.
func New(api sellerAPI, orders orderService) *Service {
	return &Service{
		api:      api,
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Dashboard returns the seller's headline metrics.
func (s *Service) Dashboard(ctx context.Context, p session.Principal) (domain.DashboardMetrics, error) {
	if err := requireSeller(p); err != nil {
		return domain.DashboardMetrics{}, err
	}
	m, err := s.api.SellerDashboard(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, fmt.Errorf("seller dashboard: %w", err)
	}
	if m.RecentOrders == nil {
		m.RecentOrders = []domain.RecentOrder{}
	}
	if m.TopProducts == nil {
		m.TopProducts = []domain.TopProduct{}
	}
	return m, nil
}

// Products pages through the seller's listings.
func (s *Service) Products(ctx context.Context, p session.Principal, page, size int, search string) (domain.ProductPage, error) {
	if err := requireSeller(p); err != nil {
		return domain.ProductPage{}, err
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	res, err := s.api.SellerProducts(ctx, page, size, search)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("seller products: %w", err)
	}
	if res.Content == nil {
		res.Content = []domain.Product{}
	}
	return res, nil
}

// DeleteProduct removes listing id once confirm agrees.
func (s *Service) DeleteProduct(ctx context.Context, p session.Principal, id int64, confirm order.Confirmer) (bool, error) {
	if err := requireSeller(p); err != nil {
		return false, err
	}
	if confirm != nil {
		ok, err := confirm(ctx, DeleteProductPrompt)
		if err != nil || !ok {
			return false, err
		}
	}
	if err := s.api.DeleteSellerProduct(ctx, id); err != nil {
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	return true, nil
}

// Product loads listing id for the edit form.
func (s *Service) Product(ctx context.Context, p session.Principal, id int64) (domain.Product, error) {
	if err := requireSeller(p); err != nil {
		return domain.Product{}, err
	}
	out, err := s.api.SellerProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("seller product %d: %w", id, err)
	}
	return out, nil
}

// SaveProduct creates a listing, or updates listing id when id is positive.
// The form is checked before anything is uploaded.
func (s *Service) SaveProduct(ctx context.Context, p session.Principal, id int64, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	if err := requireSeller(p); err != nil {
		return domain.Product{}, err
	}
	form = normalizeForm(form)
	if err := s.validate.Struct(form); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	if id <= 0 {
		out, err := s.api.CreateSellerProduct(ctx, form, images)
		if err != nil {
			return domain.Product{}, fmt.Errorf("create product: %w", err)
		}
		return out, nil
	}
	out, err := s.api.UpdateSellerProduct(ctx, id, form, images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return out, nil
}

// Order returns one incoming order with the status changes it allows.
func (s *Service) Order(ctx context.Context, p session.Principal, id int64) (order.Detail, error) {
	if err := requireSeller(p); err != nil {
		return order.Detail{}, err
	}
	o, err := s.api.SellerOrder(ctx, id)
	if err != nil {
		return order.Detail{}, fmt.Errorf("seller order %d: %w", id, err)
	}
	d := order.Detail{Order: o, Available: orderstatus.AvailableTransitions(o.Status)}
	if d.Available == nil {
		d.Available = []domain.OrderStatus{}
	}
	return d, nil
}

// Analytics returns the backend's analytics for period.
func (s *Service) Analytics(ctx context.Context, p session.Principal, period string) (map[string]any, error) {
	if err := requireSeller(p); err != nil {
		return nil, err
	}
	out, err := s.api.SellerAnalytics(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("seller analytics: %w", err)
	}
	return out, nil
}

// Orders lists the orders placed on the seller's listings.
func (s *Service) Orders(ctx context.Context, p session.Principal, page, size int, status domain.OrderStatus) (domain.OrderPage, error) {
	if err := requireSeller(p); err != nil {
		return domain.OrderPage{}, err
	}
	return s.orders.List(ctx, p, page, size, status)
}

// UpdateOrderStatus moves an order through the transition table.
func (s *Service) UpdateOrderStatus(ctx context.Context, p session.Principal, id int64, status domain.OrderStatus, confirm order.Confirmer) (order.Result, error) {
	if err := requireSeller(p); err != nil {
		return order.Result{}, err
	}
	return s.orders.UpdateStatus(ctx, p, id, status, confirm)
}

func requireSeller(p session.Principal) error {
	if !p.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !p.HasRole(domain.RoleSeller) {
		return domain.ErrForbidden
	}
	return nil
}

// Blank compatible-vehicle rows are what the form starts with; they are
// dropped rather than rejected.
func normalizeForm(f domain.ProductForm) domain.ProductForm {
	f.Title = strings.TrimSpace(f.Title)
	f.SKU = strings.ToUpper(strings.TrimSpace(f.SKU))
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	if f.Status == "" {
		f.Status = domain.ListingStatusActive
	}
	vehicles := make([]domain.CompatibleVehicle, 0, len(f.CompatibleVehicles))
	for _, v := range f.CompatibleVehicles {
		v.Make = strings.TrimSpace(v.Make)
		v.Model = strings.TrimSpace(v.Model)
		v.Year = strings.TrimSpace(v.Year)
		if v.Make == "" && v.Model == "" && v.Year == "" {
			continue
		}
		vehicles = append(vehicles, v)
	}
	f.CompatibleVehicles = vehicles
	return f
}
