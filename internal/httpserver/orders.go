package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/orderstatus"
	ordersvc "autoparts-storefront/internal/service/order"
	sellersvc "autoparts-storefront/internal/service/seller"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type statusResponse struct {
	Applied bool         `json:"applied"`
	Confirm string       `json:"confirm,omitempty"`
	Order   domain.Order `json:"order"`
}

// statusFilter reads the optional status query parameter; an unknown value
// answers 400.
func statusFilter(c *gin.Context) (domain.OrderStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	st, err := domain.ParseOrderStatus(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error(), "bad_request"))
		return "", false
	}
	return st, true
}

func bindStatus(c *gin.Context) (domain.OrderStatus, bool) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("status is required", "bad_request"))
		return "", false
	}
	st, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error(), "bad_request"))
		return "", false
	}
	return st, true
}

func toStatusResponse(res ordersvc.Result, to domain.OrderStatus) statusResponse {
	out := statusResponse{Applied: res.Applied, Order: res.Order}
	if !res.Applied {
		out.Confirm = orderstatus.ConfirmPrompt(to)
	}
	return out
}

func (h *handlers) listOrders(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	page, err := h.deps.Orders.List(c.Request.Context(), principalFrom(c), intQuery(c, "page", 0), intQuery(c, "size", 0), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	detail, err := h.deps.Orders.Get(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	to, ok := bindStatus(c)
	if !ok {
		return
	}
	res, err := h.deps.Orders.UpdateStatus(c.Request.Context(), principalFrom(c), id, to, confirmFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse(res, to))
}

func (h *handlers) proceedToPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	start, err := h.deps.Orders.ProceedToPayment(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, start)
}

func (h *handlers) sellerDashboard(c *gin.Context) {
	metrics, err := h.deps.Seller.Dashboard(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *handlers) sellerProducts(c *gin.Context) {
	page, err := h.deps.Seller.Products(c.Request.Context(), principalFrom(c), intQuery(c, "page", 0), intQuery(c, "size", 0), c.Query("search"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) deleteSellerProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	removed, err := h.deps.Seller.DeleteProduct(c.Request.Context(), principalFrom(c), id, confirmFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, gin.H{"deleted": false, "confirm": sellersvc.DeleteProductPrompt})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *handlers) sellerAnalytics(c *gin.Context) {
	data, err := h.deps.Seller.Analytics(c.Request.Context(), principalFrom(c), c.DefaultQuery("period", "month"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *handlers) sellerOrders(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	page, err := h.deps.Seller.Orders(c.Request.Context(), principalFrom(c), intQuery(c, "page", 0), intQuery(c, "size", 0), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) updateSellerOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	to, ok := bindStatus(c)
	if !ok {
		return
	}
	res, err := h.deps.Seller.UpdateOrderStatus(c.Request.Context(), principalFrom(c), id, to, confirmFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse(res, to))
}
