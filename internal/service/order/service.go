// Package order lists and shows marketplace orders and drives seller status
// changes through the transition table.
package order

import (
	"context"
	"fmt"
	"io"
	"log"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/orderstatus"
	"autoparts-storefront/internal/service/session"
)

// DefaultPageSize is used when a listing asks for no size.
const DefaultPageSize = 10

type orderAPI interface {
	ListOrders(ctx context.Context, role domain.Role, q domain.OrderQuery) (domain.OrderPage, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
	InitiatePayment(ctx context.Context, in domain.PaymentRequest) (domain.PaymentResult, error)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// AlwaysConfirm answers yes. The HTTP layer uses it once the browser has
// already shown the prompt.
func AlwaysConfirm(context.Context, string) (bool, error) { return true, nil }

// Detail is an order together with the status changes offered to a seller.
type Detail struct {
	Order     domain.Order         `json:"order"`
	Available []domain.OrderStatus `json:"availableTransitions"`
}

// Result reports the outcome of a status change.
type Result struct {
	Applied bool         `json:"applied"`
	Order   domain.Order `json:"order"`
}

// PaymentStart is the outcome of Proceed to Payment.
type PaymentStart struct {
	RedirectURL string       `json:"redirectUrl,omitempty"`
	Order       domain.Order `json:"order"`
}

// Service wraps the marketplace order endpoints.
type Service struct {
	api       orderAPI
	publicURL string
	currency  string
	logger    *log.Logger
}

// New builds a Service.
func New(api orderAPI, publicURL, currency string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if currency == "" {
		currency = "ZAR"
	}
	return &Service{api: api, publicURL: publicURL, currency: currency, logger: logger}
}

// List pages through the caller's orders, newest first. Sellers get the
// orders placed on their listings.
func (s *Service) List(ctx context.Context, p session.Principal, page, size int, status domain.OrderStatus) (domain.OrderPage, error) {
	if !p.Authenticated() {
		return domain.OrderPage{}, domain.ErrUnauthenticated
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	res, err := s.api.ListOrders(ctx, p.Role(), domain.OrderQuery{
		Page:    page,
		Size:    size,
		Status:  status,
		SortBy:  "createdAt",
		SortDir: "DESC",
	})
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	if res.Content == nil {
		res.Content = []domain.Order{}
	}
	return res, nil
}

// Get fetches one order. Sellers also get the status changes they may offer.
func (s *Service) Get(ctx context.Context, p session.Principal, id int64) (Detail, error) {
	if !p.Authenticated() {
		return Detail{}, domain.ErrUnauthenticated
	}
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return s.detail(p, o), nil
}

// UpdateStatus moves order id to status once confirm agrees. The change must
// be offered for the order's current status. After the backend accepts it the
// order is fetched again rather than patched locally.
func (s *Service) UpdateStatus(ctx context.Context, p session.Principal, id int64, status domain.OrderStatus, confirm Confirmer) (Result, error) {
	if !p.Authenticated() {
		return Result{}, domain.ErrUnauthenticated
	}
	current, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("get order %d: %w", id, err)
	}
	if !orderstatus.CanTransition(current.Status, status) {
		return Result{Order: current}, fmt.Errorf("%w: %s to %s", orderstatus.ErrIllegalTransition, current.Status, status)
	}

	if confirm == nil {
		confirm = AlwaysConfirm
	}
	ok, err := confirm(ctx, orderstatus.ConfirmPrompt(status))
	if err != nil {
		return Result{Order: current}, err
	}
	if !ok {
		return Result{Applied: false, Order: current}, nil
	}

	if _, err := s.api.UpdateOrderStatus(ctx, id, status); err != nil {
		s.logger.Printf("update order %d to %s: %v", id, status, err)
		return Result{Order: current}, fmt.Errorf("update order status: %w", err)
	}
	fresh, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return Result{Applied: true, Order: current}, fmt.Errorf("refetch order %d: %w", id, err)
	}
	return Result{Applied: true, Order: fresh}, nil
}

// ProceedToPayment retries payment for an order left in PENDING_PAYMENT.
func (s *Service) ProceedToPayment(ctx context.Context, p session.Principal, id int64) (PaymentStart, error) {
	if !p.Authenticated() {
		return PaymentStart{}, domain.ErrUnauthenticated
	}
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return PaymentStart{}, fmt.Errorf("get order %d: %w", id, err)
	}
	if o.Status != domain.OrderStatusPendingPayment {
		return PaymentStart{Order: o}, fmt.Errorf("%w: order %d is %s", orderstatus.ErrIllegalTransition, id, o.Status)
	}
	res, err := s.api.InitiatePayment(ctx, domain.NewPaymentRequest(o, s.publicURL, s.currency))
	if err != nil {
		return PaymentStart{Order: o}, fmt.Errorf("initiate payment: %w", err)
	}
	if res.RedirectURL != "" {
		return PaymentStart{RedirectURL: res.RedirectURL, Order: o}, nil
	}
	fresh, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return PaymentStart{Order: o}, fmt.Errorf("refetch order %d: %w", id, err)
	}
	return PaymentStart{Order: fresh}, nil
}

func (s *Service) detail(p session.Principal, o domain.Order) Detail {
	d := Detail{Order: o, Available: []domain.OrderStatus{}}
	if p.HasRole(domain.RoleSeller) {
		d.Available = orderstatus.AvailableTransitions(o.Status)
	}
	return d
}
