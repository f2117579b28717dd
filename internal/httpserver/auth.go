package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/service/session"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

func toSessionResponse(p session.Principal) sessionResponse {
	return sessionResponse{Authenticated: p.Authenticated(), User: p.User}
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("email and password are required", "bad_request"))
		return
	}
	p, err := h.deps.Sessions.Login(c.Request.Context(), clientIDFrom(c), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(p))
}

func (h *handlers) register(c *gin.Context) {
	var req domain.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error(), "bad_request"))
		return
	}
	user, err := h.deps.Sessions.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.Sessions.Logout(c.Request.Context(), clientIDFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	p := principalFrom(c)
	if !p.Authenticated() {
		c.JSON(http.StatusUnauthorized, errorBody("login required", "unauthenticated"))
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(p))
}
