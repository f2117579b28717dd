// Package checkout turns a client's cart into a marketplace order and, for
// card payments, hands the buyer to the payment provider.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/pricing"
	"autoparts-storefront/internal/service/session"
)

// LoginPath is where unauthenticated buyers are sent.
const LoginPath = "/login?redirect=checkout"

const (
	msgCreateFailed  = "Failed to create order. Please try again."
	msgPaymentFailed = "Your order was placed but payment could not be started. Use Proceed to Payment on the order page to try again."
)

var (
	// ErrEmptyCart refuses a submission with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInFlight refuses a second submission while one is running.
	ErrInFlight = errors.New("checkout already in progress")
	// ErrLoginRequired refuses a submission from an anonymous client.
	ErrLoginRequired = errors.New("login required")
)

type cartStore interface {
	Load(ctx context.Context) (domain.Cart, error)
	Clear(ctx context.Context) error
}

type orderAPI interface {
	CreateOrder(ctx context.Context, in domain.OrderCreationRequest) (domain.Order, error)
	InitiatePayment(ctx context.Context, in domain.PaymentRequest) (domain.PaymentResult, error)
}

// View is what the checkout screen renders.
type View struct {
	Status     Status          `json:"status"`
	Cart       domain.Cart     `json:"cart"`
	Summary    pricing.Summary `json:"summary"`
	Display    pricing.Display `json:"display"`
	Form       Form            `json:"form"`
	RedirectTo string          `json:"redirectTo,omitempty"`
	External   bool            `json:"external,omitempty"`
	OrderID    int64           `json:"orderId,omitempty"`
	Message    string          `json:"message,omitempty"`
	Fields     []FieldError    `json:"fields,omitempty"`
}

// Orchestrator runs checkout submissions. Order creation always finishes
// before payment is attempted and nothing is retried.
type Orchestrator struct {
	orders    orderAPI
	publicURL string
	currency  string
	validate  *validator.Validate
	logger    *log.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New builds an Orchestrator. publicURL roots the payment return links.
func New(orders orderAPI, publicURL, currency string, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if currency == "" {
		currency = "ZAR"
	}
	return &Orchestrator{
		orders:    orders,
		publicURL: publicURL,
		currency:  currency,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// Begin loads the checkout screen for p.
func (o *Orchestrator) Begin(ctx context.Context, p session.Principal, cart cartStore, method domain.ShippingMethod) (View, error) {
	if !p.Authenticated() {
		return View{Status: StatusLoginRequired, RedirectTo: LoginPath}, nil
	}
	c, err := cart.Load(ctx)
	if err != nil {
		return View{Status: StatusFailed}, fmt.Errorf("load cart: %w", err)
	}
	form := DefaultForm()
	if method != "" {
		form.ShippingMethod = pricing.NormalizeMethod(method)
	}
	return o.view(c, form), nil
}

// Submit places the order described by the cart and form. Business failures
// come back as a failed View together with the error that caused them.
func (o *Orchestrator) Submit(ctx context.Context, p session.Principal, cart cartStore, form Form) (View, error) {
	if !p.Authenticated() {
		return View{Status: StatusLoginRequired, RedirectTo: LoginPath}, ErrLoginRequired
	}
	if !o.acquire(p.ClientID) {
		return View{Status: StatusSubmitting}, ErrInFlight
	}
	defer o.release(p.ClientID)

	c, err := cart.Load(ctx)
	if err != nil {
		return View{Status: StatusFailed, Message: msgCreateFailed}, fmt.Errorf("load cart: %w", err)
	}
	form = form.normalize()
	view := o.view(c, form)
	if view.Status == StatusEmpty {
		return view, ErrEmptyCart
	}
	if err := validateForm(o.validate, form); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			view.Fields = verr.Fields
		}
		return view, err
	}

	order, err := o.orders.CreateOrder(ctx, orderRequest(c, form))
	if err != nil {
		o.logger.Printf("checkout %s: create order: %v", p.ClientID, err)
		view.Status = StatusFailed
		view.Message = msgCreateFailed
		return view, fmt.Errorf("create order: %w", err)
	}

	if err := cart.Clear(ctx); err != nil {
		o.logger.Printf("checkout %s: clear cart after order %d: %v", p.ClientID, order.ID, err)
	}
	view.OrderID = order.ID

	if form.PaymentMethod != domain.PaymentCreditCard {
		return completed(view, fmt.Sprintf("/orders/%d", order.ID)), nil
	}

	payment, err := o.orders.InitiatePayment(ctx, domain.NewPaymentRequest(order, o.publicURL, o.currency))
	if err != nil {
		o.logger.Printf("checkout %s: initiate payment for order %d: %v", p.ClientID, order.ID, err)
		view.Status = StatusFailed
		view.Message = msgPaymentFailed
		view.RedirectTo = fmt.Sprintf("/orders/%d", order.ID)
		return view, fmt.Errorf("initiate payment: %w", err)
	}
	if payment.RedirectURL != "" {
		view.Status = StatusRedirected
		view.RedirectTo = payment.RedirectURL
		view.External = true
		return view, nil
	}
	return completed(view, fmt.Sprintf("/orders/%d?status=success", order.ID)), nil
}

func completed(v View, path string) View {
	v.Status = StatusCompleted
	v.RedirectTo = path
	return v
}

func (o *Orchestrator) view(c domain.Cart, form Form) View {
	status := StatusReady
	if c.IsEmpty() {
		status = StatusEmpty
	}
	summary := pricing.Summarize(pricing.FromCart(c.Items), form.ShippingMethod)
	return View{
		Status:  status,
		Cart:    c,
		Summary: summary,
		Display: summary.Format(),
		Form:    form,
	}
}

func (o *Orchestrator) acquire(clientID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[clientID]; busy {
		return false
	}
	o.inFlight[clientID] = struct{}{}
	return true
}

func (o *Orchestrator) release(clientID string) {
	o.mu.Lock()
	delete(o.inFlight, clientID)
	o.mu.Unlock()
}
