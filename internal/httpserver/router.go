package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/repository/state"
	cartsvc "autoparts-storefront/internal/service/cart"
	catalogsvc "autoparts-storefront/internal/service/catalog"
	checkoutsvc "autoparts-storefront/internal/service/checkout"
	comparisonsvc "autoparts-storefront/internal/service/comparison"
	garagesvc "autoparts-storefront/internal/service/garage"
	ordersvc "autoparts-storefront/internal/service/order"
	"autoparts-storefront/internal/service/session"
)

const defaultHeartbeat = 25 * time.Second

type sessionService interface {
	Resolve(ctx context.Context, clientID string) (session.Principal, error)
	Login(ctx context.Context, clientID, email, password string) (session.Principal, error)
	Register(ctx context.Context, in domain.Registration) (domain.User, error)
	Logout(ctx context.Context, clientID string) error
}

type orderService interface {
	List(ctx context.Context, p session.Principal, page, size int, status domain.OrderStatus) (domain.OrderPage, error)
	Get(ctx context.Context, p session.Principal, id int64) (ordersvc.Detail, error)
	UpdateStatus(ctx context.Context, p session.Principal, id int64, status domain.OrderStatus, confirm ordersvc.Confirmer) (ordersvc.Result, error)
	ProceedToPayment(ctx context.Context, p session.Principal, id int64) (ordersvc.PaymentStart, error)
}

type garageService interface {
	List(ctx context.Context, p session.Principal) ([]domain.Vehicle, error)
	Save(ctx context.Context, p session.Principal, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, p session.Principal, id int64, confirm garagesvc.Confirmer) (bool, error)
}

type sellerService interface {
	Dashboard(ctx context.Context, p session.Principal) (domain.DashboardMetrics, error)
	Products(ctx context.Context, p session.Principal, page, size int, search string) (domain.ProductPage, error)
	Product(ctx context.Context, p session.Principal, id int64) (domain.Product, error)
	SaveProduct(ctx context.Context, p session.Principal, id int64, form domain.ProductForm, images []domain.ImageUpload) (domain.Product, error)
	DeleteProduct(ctx context.Context, p session.Principal, id int64, confirm ordersvc.Confirmer) (bool, error)
	Analytics(ctx context.Context, p session.Principal, period string) (map[string]any, error)
	Orders(ctx context.Context, p session.Principal, page, size int, status domain.OrderStatus) (domain.OrderPage, error)
	Order(ctx context.Context, p session.Principal, id int64) (ordersvc.Detail, error)
	UpdateOrderStatus(ctx context.Context, p session.Principal, id int64, status domain.OrderStatus, confirm ordersvc.Confirmer) (ordersvc.Result, error)
}

// Deps groups the collaborators the router needs.
type Deps struct {
	State         state.Backend
	Sessions      sessionService
	Carts         *cartsvc.Manager
	Comparisons   *comparisonsvc.Manager
	Checkout      *checkoutsvc.Orchestrator
	Catalog       *catalogsvc.Service
	Orders        orderService
	Garage        garageService
	Seller        sellerService
	CORSOrigins   []string
	SecureCookies bool
	Heartbeat     time.Duration

	closing <-chan struct{}
}

type handlers struct {
	logger *log.Logger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = logDiscard()
	}
	if deps.Sessions == nil || deps.Carts == nil || deps.Comparisons == nil {
		return nil, errors.New("httpserver: sessions, carts and comparisons are required")
	}
	if deps.Heartbeat <= 0 {
		deps.Heartbeat = defaultHeartbeat
	}
	h := &handlers{logger: logger, deps: deps}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = deps.CORSOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.State))

	api := router.Group("/api")
	api.Use(clientMiddleware(deps.SecureCookies), sessionMiddleware(deps.Sessions, logger))

	auth := api.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/register", h.register)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me)

	cart := api.Group("/cart")
	cart.GET("", h.getCart)
	cart.POST("/items", h.addCartItem)
	cart.PATCH("/items/:id", h.setCartQuantity)
	cart.DELETE("/items/:id", h.removeCartItem)
	cart.DELETE("", h.clearCart)

	compare := api.Group("/compare")
	compare.GET("", h.getComparison)
	compare.POST("", h.addComparisonItem)
	compare.DELETE("/:id", h.removeComparisonItem)
	compare.DELETE("", h.clearComparison)

	api.GET("/events", h.events)

	if deps.Checkout != nil {
		api.GET("/checkout", h.beginCheckout)
		api.POST("/checkout", h.submitCheckout)
	}

	if deps.Catalog != nil {
		products := api.Group("/products")
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.POST("/:id/cart", h.addProductToCart)
		products.POST("/:id/compare", h.addProductToComparison)
	}

	if deps.Orders != nil {
		orders := api.Group("/orders")
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PATCH("/:id/status", h.updateOrderStatus)
		orders.POST("/:id/payment", h.proceedToPayment)
	}

	if deps.Garage != nil {
		garage := api.Group("/garage")
		garage.GET("", h.listVehicles)
		garage.POST("", h.createVehicle)
		garage.PUT("/:id", h.updateVehicle)
		garage.DELETE("/:id", h.deleteVehicle)
	}

	if deps.Seller != nil {
		seller := api.Group("/seller")
		seller.GET("/dashboard", h.sellerDashboard)
		seller.GET("/products", h.sellerProducts)
		seller.POST("/products", h.createSellerProduct)
		seller.GET("/products/:id", h.sellerProduct)
		seller.PUT("/products/:id", h.updateSellerProduct)
		seller.DELETE("/products/:id", h.deleteSellerProduct)
		seller.GET("/analytics", h.sellerAnalytics)
		seller.GET("/orders", h.sellerOrders)
		seller.GET("/orders/:id", h.sellerOrder)
		seller.PATCH("/orders/:id/status", h.updateSellerOrderStatus)
	}

	return router, nil
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
