package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/backend"
	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/orderstatus"
	cartsvc "autoparts-storefront/internal/service/cart"
	checkoutsvc "autoparts-storefront/internal/service/checkout"
	garagesvc "autoparts-storefront/internal/service/garage"
	sellersvc "autoparts-storefront/internal/service/seller"
	"autoparts-storefront/internal/service/session"
)

func errorBody(message, code string) gin.H {
	return gin.H{"error": message, "code": code}
}

// writeError maps service errors onto status codes. Marketplace failures are
// reported generically.
func (h *handlers) writeError(c *gin.Context, err error) {
	status, message, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, errorBody(message, code))
}

func classify(err error) (int, string, string) {
	var verr *checkoutsvc.ValidationError
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password", "invalid_credentials"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, checkoutsvc.ErrLoginRequired):
		return http.StatusUnauthorized, "login required", "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "not allowed for this account", "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found", "not_found"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error(), "invalid_form"
	case errors.Is(err, garagesvc.ErrInvalidVehicle):
		return http.StatusBadRequest, err.Error(), "invalid_vehicle"
	case errors.Is(err, sellersvc.ErrInvalidProduct):
		return http.StatusBadRequest, err.Error(), "invalid_product"
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error(), "invalid_quantity"
	case errors.Is(err, checkoutsvc.ErrEmptyCart):
		return http.StatusConflict, "your cart is empty", "empty_cart"
	case errors.Is(err, checkoutsvc.ErrInFlight):
		return http.StatusConflict, "checkout already in progress", "in_flight"
	case errors.Is(err, orderstatus.ErrIllegalTransition):
		return http.StatusConflict, "that status change is not available for this order", "illegal_transition"
	case backend.StatusOf(err) != 0:
		return http.StatusBadGateway, "the marketplace could not complete the request", "backend_error"
	default:
		return http.StatusInternalServerError, "internal error", "internal"
	}
}
