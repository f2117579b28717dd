package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	garagesvc "autoparts-storefront/internal/service/garage"
)

func (h *handlers) listProducts(c *gin.Context) {
	q := domain.ProductQuery{
		Page:     intQuery(c, "page", 0),
		Size:     intQuery(c, "size", 0),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Make:     c.Query("make"),
		Model:    c.Query("model"),
		Year:     intQuery(c, "year", 0),
	}
	page, err := h.deps.Catalog.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.deps.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) addProductToCart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req quantityRequest
	_ = c.ShouldBindJSON(&req)
	store, release := h.deps.Carts.Acquire(clientIDFrom(c))
	defer release()
	cart, err := h.deps.Catalog.AddToCart(c.Request.Context(), store, id, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody(c, cart))
}

func (h *handlers) addProductToComparison(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	set, release := h.deps.Comparisons.Acquire(clientIDFrom(c))
	defer release()
	items, err := h.deps.Catalog.AddToComparison(c.Request.Context(), set, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparisonBody(items))
}

func (h *handlers) listVehicles(c *gin.Context) {
	vs, err := h.deps.Garage.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vs)
}

func (h *handlers) createVehicle(c *gin.Context) {
	var v domain.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid vehicle", "bad_request"))
		return
	}
	v.ID = 0
	out, err := h.deps.Garage.Save(c.Request.Context(), principalFrom(c), v)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *handlers) updateVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var v domain.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid vehicle", "bad_request"))
		return
	}
	v.ID = id
	out, err := h.deps.Garage.Save(c.Request.Context(), principalFrom(c), v)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) deleteVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	removed, err := h.deps.Garage.Delete(c.Request.Context(), principalFrom(c), id, confirmFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, gin.H{"deleted": false, "confirm": garagesvc.DeletePrompt})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
