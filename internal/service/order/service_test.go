package order

import (
	"context"
	"errors"
	"testing"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/orderstatus"
	"autoparts-storefront/internal/service/session"
)

type stubAPI struct {
	page        domain.OrderPage
	listErr     error
	orders      []domain.Order
	getErr      error
	updateErr   error
	payment     domain.PaymentResult
	paymentErr  error
	getCalls    int
	updateCalls int
	lastRole    domain.Role
	lastQuery   domain.OrderQuery
	lastStatus  domain.OrderStatus
	lastPayment domain.PaymentRequest
}

func (s *stubAPI) ListOrders(_ context.Context, role domain.Role, q domain.OrderQuery) (domain.OrderPage, error) {
	s.lastRole = role
	s.lastQuery = q
	return s.page, s.listErr
}

// GetOrder returns orders[n] on the nth call, repeating the last one.
func (s *stubAPI) GetOrder(_ context.Context, _ int64) (domain.Order, error) {
	if s.getErr != nil {
		return domain.Order{}, s.getErr
	}
	idx := s.getCalls
	if idx >= len(s.orders) {
		idx = len(s.orders) - 1
	}
	s.getCalls++
	return s.orders[idx], nil
}

func (s *stubAPI) UpdateOrderStatus(_ context.Context, _ int64, status domain.OrderStatus) (domain.Order, error) {
	s.updateCalls++
	s.lastStatus = status
	return domain.Order{}, s.updateErr
}

func (s *stubAPI) InitiatePayment(_ context.Context, in domain.PaymentRequest) (domain.PaymentResult, error) {
	s.lastPayment = in
	return s.payment, s.paymentErr
}

var (
	seller = session.Principal{ClientID: "s", Token: "t", User: &domain.User{ID: 2, Role: domain.RoleSeller}}
	buyer  = session.Principal{ClientID: "b", Token: "t", User: &domain.User{ID: 3, Role: domain.RoleBuyer}}
)

func TestListUsesRoleAndDefaults(t *testing.T) {
	api := &stubAPI{}
	svc := New(api, "", "", nil)

	page, err := svc.List(context.Background(), seller, -1, 0, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Content == nil {
		t.Fatalf("expected non-nil content")
	}
	if api.lastRole != domain.RoleSeller {
		t.Fatalf("expected seller listing, got %s", api.lastRole)
	}
	want := domain.OrderQuery{Page: 0, Size: 10, Status: domain.OrderStatusShipped, SortBy: "createdAt", SortDir: "DESC"}
	if api.lastQuery != want {
		t.Fatalf("unexpected query %+v", api.lastQuery)
	}
}

func TestListRequiresLogin(t *testing.T) {
	svc := New(&stubAPI{}, "", "", nil)
	if _, err := svc.List(context.Background(), session.Principal{}, 0, 10, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetOffersTransitionsToSellers(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{{ID: 1, Status: domain.OrderStatusDelivered}}}
	svc := New(api, "", "", nil)

	d, err := svc.Get(context.Background(), seller, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(d.Available) != 1 || d.Available[0] != domain.OrderStatusRefunded {
		t.Fatalf("unexpected transitions %v", d.Available)
	}
	d, _ = svc.Get(context.Background(), buyer, 1)
	if len(d.Available) != 0 {
		t.Fatalf("buyers get no transitions, got %v", d.Available)
	}
}

func TestUpdateStatusRefetches(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{
		{ID: 4, Status: domain.OrderStatusProcessing},
		{ID: 4, Status: domain.OrderStatusShipped, TrackingNumber: "TRK-1"},
	}}
	svc := New(api, "", "", nil)
	var prompt string
	confirm := func(_ context.Context, p string) (bool, error) {
		prompt = p
		return true, nil
	}

	res, err := svc.UpdateStatus(context.Background(), seller, 4, domain.OrderStatusShipped, confirm)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if prompt != "Are you sure you want to mark this order as Shipped?" {
		t.Fatalf("unexpected prompt %q", prompt)
	}
	if !res.Applied || res.Order.TrackingNumber != "TRK-1" {
		t.Fatalf("expected refetched order, got %+v", res)
	}
	if api.updateCalls != 1 || api.lastStatus != domain.OrderStatusShipped || api.getCalls != 2 {
		t.Fatalf("unexpected calls update=%d get=%d", api.updateCalls, api.getCalls)
	}
}

func TestUpdateStatusDeclined(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{{ID: 4, Status: domain.OrderStatusPendingPayment}}}
	svc := New(api, "", "", nil)
	decline := func(context.Context, string) (bool, error) { return false, nil }

	res, err := svc.UpdateStatus(context.Background(), seller, 4, domain.OrderStatusCancelled, decline)
	if err != nil {
		t.Fatalf("declining is not an error, got %v", err)
	}
	if res.Applied || api.updateCalls != 0 {
		t.Fatalf("declined change must not be sent: %+v calls=%d", res, api.updateCalls)
	}
}

func TestUpdateStatusIllegal(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{{ID: 4, Status: domain.OrderStatusCancelled}}}
	svc := New(api, "", "", nil)
	asked := false
	confirm := func(context.Context, string) (bool, error) {
		asked = true
		return true, nil
	}

	_, err := svc.UpdateStatus(context.Background(), seller, 4, domain.OrderStatusProcessing, confirm)
	if !errors.Is(err, orderstatus.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if asked || api.updateCalls != 0 {
		t.Fatalf("illegal change must not prompt or call the backend")
	}
}

func TestUpdateStatusServerRejects(t *testing.T) {
	api := &stubAPI{
		orders:    []domain.Order{{ID: 4, Status: domain.OrderStatusShipped}},
		updateErr: errors.New("backend returned 409"),
	}
	svc := New(api, "", "", nil)

	res, err := svc.UpdateStatus(context.Background(), seller, 4, domain.OrderStatusDelivered, AlwaysConfirm)
	if err == nil || res.Applied {
		t.Fatalf("expected failure, got %+v err=%v", res, err)
	}
	if res.Order.Status != domain.OrderStatusShipped {
		t.Fatalf("local order must not be patched, got %s", res.Order.Status)
	}
	if api.getCalls != 1 {
		t.Fatalf("no refetch after a rejected change, got %d gets", api.getCalls)
	}
}

func TestProceedToPayment(t *testing.T) {
	api := &stubAPI{
		orders:  []domain.Order{{ID: 6, OrderNumber: "ORD-6", Total: 99, Status: domain.OrderStatusPendingPayment}},
		payment: domain.PaymentResult{RedirectURL: "https://pay.example/6"},
	}
	svc := New(api, "https://shop.example", "ZAR", nil)

	res, err := svc.ProceedToPayment(context.Background(), buyer, 6)
	if err != nil {
		t.Fatalf("ProceedToPayment: %v", err)
	}
	if res.RedirectURL != "https://pay.example/6" {
		t.Fatalf("unexpected result %+v", res)
	}
	if api.lastPayment.Description != "Payment for Order #ORD-6" || api.lastPayment.Amount != 99 {
		t.Fatalf("unexpected payment request %+v", api.lastPayment)
	}
}

func TestProceedToPaymentWithoutRedirectRefetches(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{
		{ID: 6, Status: domain.OrderStatusPendingPayment},
		{ID: 6, Status: domain.OrderStatusPaymentCompleted},
	}}
	svc := New(api, "", "", nil)

	res, err := svc.ProceedToPayment(context.Background(), buyer, 6)
	if err != nil {
		t.Fatalf("ProceedToPayment: %v", err)
	}
	if res.RedirectURL != "" || res.Order.Status != domain.OrderStatusPaymentCompleted {
		t.Fatalf("expected refetched order, got %+v", res)
	}
}

func TestProceedToPaymentRequiresPending(t *testing.T) {
	api := &stubAPI{orders: []domain.Order{{ID: 6, Status: domain.OrderStatusShipped}}}
	svc := New(api, "", "", nil)
	if _, err := svc.ProceedToPayment(context.Background(), buyer, 6); !errors.Is(err, orderstatus.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}
