package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/pricing"
)

type cartResponse struct {
	Items   []domain.CartLineItem `json:"items"`
	Count   int                   `json:"count"`
	Summary pricing.Summary       `json:"summary"`
	Display pricing.Display       `json:"display"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type comparisonResponse struct {
	Items []domain.ComparisonItem `json:"items"`
	Count int                     `json:"count"`
}

// cartBody recomputes the summary on every response; nothing is cached.
func cartBody(c *gin.Context, cart domain.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	method := domain.ShippingMethod(c.Query("shippingMethod"))
	summary := pricing.Summarize(pricing.FromCart(items), method)
	return cartResponse{
		Items:   items,
		Count:   cart.ItemCount(),
		Summary: summary,
		Display: summary.Format(),
	}
}

func comparisonBody(items []domain.ComparisonItem) comparisonResponse {
	if items == nil {
		items = []domain.ComparisonItem{}
	}
	return comparisonResponse{Items: items, Count: len(items)}
}

func (h *handlers) getCart(c *gin.Context) {
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	cart, err := store.Load(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, cart))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var item domain.CartLineItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ID <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("a line item with an id is required", "bad_request"))
		return
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	cart, err := store.Add(c.Request.Context(), item)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, cart))
}

func (h *handlers) setCartQuantity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("quantity is required", "bad_request"))
		return
	}
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	cart, err := store.SetQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	cart, err := store.Remove(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	if err := store.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, domain.Cart{}))
}

func (h *handlers) getComparison(c *gin.Context) {
	set, release := h.deps.Comparisons.Acquire(clientIDFrom(c))
	defer release()
	items, err := set.Items(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparisonBody(items))
}

func (h *handlers) addComparisonItem(c *gin.Context) {
	var item domain.ComparisonItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ID <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("an item with an id is required", "bad_request"))
		return
	}
	set, release := h.deps.Comparisons.Acquire(clientIDFrom(c))
	defer release()
	items, err := set.Add(c.Request.Context(), item)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparisonBody(items))
}

func (h *handlers) removeComparisonItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	set, release := h.deps.Comparisons.Acquire(clientIDFrom(c))
	defer release()
	items, err := set.Remove(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparisonBody(items))
}

func (h *handlers) clearComparison(c *gin.Context) {
	set, release := h.deps.Comparisons.Acquire(clientIDFrom(c))
	defer release()
	if err := set.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparisonBody(nil))
}
