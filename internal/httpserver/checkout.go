package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	checkoutsvc "autoparts-storefront/internal/service/checkout"
)

type checkoutResponse struct {
	checkoutsvc.View
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

func (h *handlers) beginCheckout(c *gin.Context) {
	p := principalFrom(c)
	method := domain.ShippingMethod(c.Query("shippingMethod"))
	store, release := h.deps.Carts.Acquire(p.ClientID)
	defer release()
	view, err := h.deps.Checkout.Begin(c.Request.Context(), p, store, method)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{View: view})
}

// submitCheckout always answers with the checkout view so the page can show
// field errors, the failure message or where to go next.
func (h *handlers) submitCheckout(c *gin.Context) {
	p := principalFrom(c)
	form := checkoutsvc.DefaultForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid checkout form", "bad_request"))
		return
	}
	store, release := h.deps.Carts.Acquire(p.ClientID)
	defer release()
	view, err := h.deps.Checkout.Submit(c.Request.Context(), p, store, form)
	if err != nil {
		status, message, code := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Printf("checkout %s: %v", p.ClientID, err)
		}
		if view.Message == "" {
			view.Message = message
		}
		c.JSON(status, checkoutResponse{View: view, Error: message, Code: code})
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{View: view})
}
