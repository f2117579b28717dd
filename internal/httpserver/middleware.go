package httpserver

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autoparts-storefront/internal/backend"
	"autoparts-storefront/internal/service/session"
)

// ClientCookie carries the browser's client id.
const ClientCookie = "sf_client"

const clientCookieMaxAge = 365 * 24 * 60 * 60

type ctxKey string

const (
	clientCtxKey    ctxKey = "client"
	principalCtxKey ctxKey = "principal"
)

// clientMiddleware makes sure every caller has a client id, issuing a fresh
// one when the cookie is missing or not a UUID.
func clientMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := c.Cookie(ClientCookie)
		if err == nil {
			_, err = uuid.Parse(clientID)
		}
		if err != nil {
			clientID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientCookie, clientID, clientCookieMaxAge, "/", "", secure, true)
		}
		ctx := context.WithValue(c.Request.Context(), clientCtxKey, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// sessionMiddleware loads the caller's stored credentials and forwards the
// token to backend calls made while serving the request.
func sessionMiddleware(sessions sessionService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := clientIDFrom(c)
		p, err := sessions.Resolve(c.Request.Context(), clientID)
		if err != nil {
			logger.Printf("resolve session %s: %v", clientID, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorBody("session store unavailable", "unavailable"))
			return
		}
		ctx := context.WithValue(c.Request.Context(), principalCtxKey, p)
		ctx = backend.WithBearer(ctx, p.Token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func clientIDFrom(c *gin.Context) string {
	id, _ := c.Request.Context().Value(clientCtxKey).(string)
	return id
}

func principalFrom(c *gin.Context) session.Principal {
	p, ok := c.Request.Context().Value(principalCtxKey).(session.Principal)
	if !ok {
		return session.Principal{ClientID: clientIDFrom(c)}
	}
	return p
}

// idParam parses the :id path segment, answering 400 itself on failure.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("invalid id", "bad_request"))
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// confirmFromQuery answers a confirmation prompt with the request's confirm
// flag, which the browser sets once the user has agreed.
func confirmFromQuery(c *gin.Context) func(context.Context, string) (bool, error) {
	return func(context.Context, string) (bool, error) {
		ok, _ := strconv.ParseBool(c.Query("confirm"))
		return ok, nil
	}
}
