package seller

import (
	"context"
	"errors"
	"testing"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/service/order"
	"autoparts-storefront/internal/service/session"
)

type stubSellerAPI struct {
	metrics     domain.DashboardMetrics
	page        domain.ProductPage
	err         error
	lastPage    int
	lastSize    int
	lastSearch  string
	deletedID   int64
	lastPeriod  string
	dashboardOK bool

	product     domain.Product
	order       domain.Order
	created     int
	updatedID   int64
	lastForm    domain.ProductForm
	lastImages  []domain.ImageUpload
	lastProduct int64
	lastOrder   int64
}

func (s *stubSellerAPI) SellerProduct(_ context.Context, id int64) (domain.Product, error) {
	s.lastProduct = id
	return s.product, s.err
}

func (s *stubSellerAPI) CreateSellerProduct(_ context.Context, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	s.created++
	s.lastForm, s.lastImages = form, images
	return s.product, s.err
}

func (s *stubSellerAPI) UpdateSellerProduct(_ context.Context, id int64, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error) {
	s.updatedID = id
	s.lastForm, s.lastImages = form, images
	return s.product, s.err
}

func (s *stubSellerAPI) SellerOrder(_ context.Context, id int64) (domain.Order, error) {
	s.lastOrder = id
	return s.order, s.err
}

func (s *stubSellerAPI) SellerDashboard(context.Context) (domain.DashboardMetrics, error) {
	s.dashboardOK = true
	return s.metrics, s.err
}

func (s *stubSellerAPI) SellerProducts(_ context.Context, page, size int, search string) (domain.ProductPage, error) {
	s.lastPage, s.lastSize, s.lastSearch = page, size, search
	return s.page, s.err
}

func (s *stubSellerAPI) DeleteSellerProduct(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

func (s *stubSellerAPI) SellerAnalytics(_ context.Context, period string) (map[string]any, error) {
	s.lastPeriod = period
	return map[string]any{"revenue": 10.0}, s.err
}

type stubOrders struct {
	listCalls   int
	updateCalls int
	lastStatus  domain.OrderStatus
}

func (s *stubOrders) List(_ context.Context, _ session.Principal, _, _ int, status domain.OrderStatus) (domain.OrderPage, error) {
	s.listCalls++
	s.lastStatus = status
	return domain.OrderPage{Content: []domain.Order{}}, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, _ session.Principal, _ int64, status domain.OrderStatus, _ order.Confirmer) (order.Result, error) {
	s.updateCalls++
	s.lastStatus = status
	return order.Result{Applied: true}, nil
}

var (
	sellerP = session.Principal{ClientID: "s", Token: "t", User: &domain.User{Role: domain.RoleSeller}}
	buyerP  = session.Principal{ClientID: "b", Token: "t", User: &domain.User{Role: domain.RoleBuyer}}
)

func TestDashboardRequiresSeller(t *testing.T) {
	api := &stubSellerAPI{}
	svc := New(api, &stubOrders{})

	if _, err := svc.Dashboard(context.Background(), buyerP); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), session.Principal{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if api.dashboardOK {
		t.Fatalf("backend must not be called for non-sellers")
	}

	m, err := svc.Dashboard(context.Background(), sellerP)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if m.RecentOrders == nil || m.TopProducts == nil {
		t.Fatalf("expected empty slices, got %+v", m)
	}
}

func TestProductsDefaults(t *testing.T) {
	api := &stubSellerAPI{}
	if _, err := New(api, &stubOrders{}).Products(context.Background(), sellerP, -1, 0, "pad"); err != nil {
		t.Fatalf("Products: %v", err)
	}
	if api.lastPage != 0 || api.lastSize != 10 || api.lastSearch != "pad" {
		t.Fatalf("unexpected paging page=%d size=%d search=%q", api.lastPage, api.lastSize, api.lastSearch)
	}
}

func TestDeleteProductConfirm(t *testing.T) {
	api := &stubSellerAPI{}
	svc := New(api, &stubOrders{})
	decline := func(context.Context, string) (bool, error) { return false, nil }

	removed, err := svc.DeleteProduct(context.Background(), sellerP, 8, decline)
	if err != nil || removed || api.deletedID != 0 {
		t.Fatalf("declined delete went through: removed=%v err=%v", removed, err)
	}
	removed, err = svc.DeleteProduct(context.Background(), sellerP, 8, order.AlwaysConfirm)
	if err != nil || !removed || api.deletedID != 8 {
		t.Fatalf("confirmed delete failed: removed=%v err=%v", removed, err)
	}
}

func TestOrdersDelegate(t *testing.T) {
	orders := &stubOrders{}
	svc := New(&stubSellerAPI{}, orders)

	if _, err := svc.Orders(context.Background(), sellerP, 0, 10, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(context.Background(), sellerP, 1, domain.OrderStatusShipped, order.AlwaysConfirm); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if orders.listCalls != 1 || orders.updateCalls != 1 || orders.lastStatus != domain.OrderStatusShipped {
		t.Fatalf("unexpected delegation %+v", orders)
	}
	if _, err := svc.Orders(context.Background(), buyerP, 0, 10, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for buyer, got %v", err)
	}
}

func TestAnalyticsPassesPeriod(t *testing.T) {
	api := &stubSellerAPI{}
	out, err := New(api, &stubOrders{}).Analytics(context.Background(), sellerP, "month")
	if err != nil || out["revenue"] != 10.0 || api.lastPeriod != "month" {
		t.Fatalf("unexpected analytics %v err=%v period=%q", out, err, api.lastPeriod)
	}
}

func validProductForm() domain.ProductForm {
	return domain.ProductForm{
		Title:       " Brake Pad Set ",
		SKU:         "brk-001",
		Description: "High-performance brake pads.",
		Category:    "Brake System",
		Price:       49.99,
		Stock:       45,
		CompatibleVehicles: []domain.CompatibleVehicle{
			{Make: "Toyota", Model: "Camry", Year: "2020"},
			{},
		},
	}
}

func TestSaveProductCreatesWithNormalizedForm(t *testing.T) {
	api := &stubSellerAPI{product: domain.Product{ID: 9}}
	svc := New(api, &stubOrders{})
	images := []domain.ImageUpload{{Filename: "front.jpg", ContentType: "image/jpeg", Data: []byte{1, 2}}}

	out, err := svc.SaveProduct(context.Background(), sellerP, 0, validProductForm(), images)
	if err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}
	if out.ID != 9 || api.created != 1 || api.updatedID != 0 {
		t.Fatalf("expected one create, got created=%d updated=%d", api.created, api.updatedID)
	}
	f := api.lastForm
	if f.Title != "Brake Pad Set" || f.SKU != "BRK-001" || f.Status != domain.ListingStatusActive {
		t.Fatalf("unexpected form %+v", f)
	}
	if len(f.CompatibleVehicles) != 1 {
		t.Fatalf("expected the blank vehicle row dropped, got %+v", f.CompatibleVehicles)
	}
	if len(api.lastImages) != 1 || api.lastImages[0].Filename != "front.jpg" {
		t.Fatalf("expected the upload to be passed on, got %+v", api.lastImages)
	}
}

func TestSaveProductUpdatesExisting(t *testing.T) {
	api := &stubSellerAPI{}
	svc := New(api, &stubOrders{})
	form := validProductForm()
	form.ExistingImages = []string{"https://cdn.example/brk-1.jpg"}

	if _, err := svc.SaveProduct(context.Background(), sellerP, 12, form, nil); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}
	if api.updatedID != 12 || api.created != 0 {
		t.Fatalf("expected update of 12, got updated=%d created=%d", api.updatedID, api.created)
	}
	if len(api.lastForm.ExistingImages) != 1 {
		t.Fatalf("expected kept images, got %+v", api.lastForm.ExistingImages)
	}
}

func TestSaveProductRejectsInvalidForm(t *testing.T) {
	cases := map[string]func(*domain.ProductForm){
		"missing title":  func(f *domain.ProductForm) { f.Title = "  " },
		"zero price":     func(f *domain.ProductForm) { f.Price = 0 },
		"negative stock": func(f *domain.ProductForm) { f.Stock = -1 },
		"vehicle no model": func(f *domain.ProductForm) {
			f.CompatibleVehicles = []domain.CompatibleVehicle{{Make: "Honda"}}
		},
		"bad year": func(f *domain.ProductForm) {
			f.CompatibleVehicles = []domain.CompatibleVehicle{{Make: "Honda", Model: "Accord", Year: "19"}}
		},
		"bad image url": func(f *domain.ProductForm) { f.ExistingImages = []string{"not a url"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			api := &stubSellerAPI{}
			svc := New(api, &stubOrders{})
			form := validProductForm()
			mutate(&form)

			_, err := svc.SaveProduct(context.Background(), sellerP, 0, form, nil)
			if !errors.Is(err, ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
			if api.created != 0 {
				t.Fatalf("invalid form must not reach the backend")
			}
		})
	}
}

func TestSaveProductRequiresSeller(t *testing.T) {
	api := &stubSellerAPI{}
	svc := New(api, &stubOrders{})
	if _, err := svc.SaveProduct(context.Background(), buyerP, 0, validProductForm(), nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Product(context.Background(), buyerP, 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if api.created != 0 || api.lastProduct != 0 {
		t.Fatalf("backend must not be called for non-sellers")
	}
}

func TestProductLoadsListing(t *testing.T) {
	api := &stubSellerAPI{product: domain.Product{ID: 3, Title: "Oil Filter"}}
	svc := New(api, &stubOrders{})

	out, err := svc.Product(context.Background(), sellerP, 3)
	if err != nil || out.Title != "Oil Filter" || api.lastProduct != 3 {
		t.Fatalf("unexpected product %+v err=%v", out, err)
	}
}

func TestOrderOffersTransitions(t *testing.T) {
	api := &stubSellerAPI{order: domain.Order{ID: 4, Status: domain.OrderStatusPaymentCompleted}}
	svc := New(api, &stubOrders{})

	d, err := svc.Order(context.Background(), sellerP, 4)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if api.lastOrder != 4 || d.Order.ID != 4 {
		t.Fatalf("unexpected detail %+v", d)
	}
	if len(d.Available) != 3 || d.Available[0] != domain.OrderStatusProcessing {
		t.Fatalf("unexpected transitions %+v", d.Available)
	}
}

func TestOrderOfTerminalStatusOffersNothing(t *testing.T) {
	api := &stubSellerAPI{order: domain.Order{ID: 5, Status: domain.OrderStatusCancelled}}
	svc := New(api, &stubOrders{})

	d, err := svc.Order(context.Background(), sellerP, 5)
	if err != nil || d.Available == nil || len(d.Available) != 0 {
		t.Fatalf("expected an empty transition list, got %+v err=%v", d.Available, err)
	}
}
