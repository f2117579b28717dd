package backend

import (
	"context"
	"net/http"

	"autoparts-storefront/internal/domain"
)

// Login exchanges credentials for a bearer token and the account profile.
func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	var out domain.LoginResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out)
	return out, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in domain.Registration) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out)
	return out, err
}
