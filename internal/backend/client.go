// Package backend is the HTTP client for the marketplace API that owns
// orders, payments, products, users and vehicles.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"autoparts-storefront/internal/domain"
)

// Error is a non-2xx answer from the marketplace API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is lets callers match 404 and 401 answers against the domain sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

// Client calls the marketplace API. The zero timeout leaves calls unbounded,
// matching the browser client it replaces.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *log.Logger
}

// New builds a Client rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type bearerKey struct{}

// WithBearer attaches a per-request token to ctx. It takes precedence over a
// token set with WithToken.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context, fallback string) string {
	if token, ok := ctx.Value(bearerKey{}).(string); ok && token != "" {
		return token
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if body == nil {
		return c.send(ctx, method, path, query, nil, "", out)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return c.send(ctx, method, path, query, bytes.NewReader(payload), "application/json", out)
}

// send issues one request with an already encoded body of contentType and
// decodes a JSON answer into out.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, reader io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := bearerFrom(ctx, c.token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("backend %s %s -> %d", method, path, resp.StatusCode)
		return &Error{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return truncate(body.Message, maxMessageLen)
		}
		if body.Error != "" {
			return truncate(body.Error, maxMessageLen)
		}
	}
	msg := strings.TrimSpace(string(raw))
	return truncate(msg, maxMessageLen)
}

const maxMessageLen = 200

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
