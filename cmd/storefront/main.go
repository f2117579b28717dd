package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"autoparts-storefront/internal/backend"
	"autoparts-storefront/internal/config"
	"autoparts-storefront/internal/httpserver"
	"autoparts-storefront/internal/repository/state"
	cartsvc "autoparts-storefront/internal/service/cart"
	catalogsvc "autoparts-storefront/internal/service/catalog"
	checkoutsvc "autoparts-storefront/internal/service/checkout"
	comparisonsvc "autoparts-storefront/internal/service/comparison"
	garagesvc "autoparts-storefront/internal/service/garage"
	ordersvc "autoparts-storefront/internal/service/order"
	sellersvc "autoparts-storefront/internal/service/seller"
	"autoparts-storefront/internal/service/session"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	config.LoadDotEnv(logger)
	cfg := config.FromEnv()

	ctx := context.Background()
	store, closeStore, err := state.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open state store: %v", err)
	}
	defer closeStore()

	api := backend.New(cfg.BackendURL, cfg.BackendTimeout, logger)
	orderService := ordersvc.New(api, cfg.PublicURL, cfg.Currency, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		State:         store,
		Sessions:      session.New(store, api, logger),
		Carts:         cartsvc.NewManager(store, logger),
		Comparisons:   comparisonsvc.NewManager(store, logger),
		Checkout:      checkoutsvc.New(api, cfg.PublicURL, cfg.Currency, logger),
		Catalog:       catalogsvc.New(api),
		Orders:        orderService,
		Garage:        garagesvc.New(api),
		Seller:        sellersvc.New(api, orderService),
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: strings.HasPrefix(cfg.PublicURL, "https://"),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (state=%s, backend=%s)", cfg.HTTPAddr, cfg.StateBackend, cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
