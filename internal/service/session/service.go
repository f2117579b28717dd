// Package session passes marketplace credentials through for a browser
// client. The token is opaque here; the marketplace backend validates it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"autoparts-storefront/internal/backend"
	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/repository/state"
)

const (
	// TokenKey holds the raw bearer token.
	TokenKey = "authToken"
	// UserKey holds the profile returned at login.
	UserKey = "user"
)

// ErrInvalidCredentials is returned when the backend refuses a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

type authAPI interface {
	Login(ctx context.Context, email, password string) (domain.LoginResult, error)
	Register(ctx context.Context, in domain.Registration) (domain.User, error)
}

// Principal is what a request knows about its caller.
type Principal struct {
	ClientID string
	Token    string
	User     *domain.User
}

// Authenticated reports whether a token is stored for the client.
func (p Principal) Authenticated() bool {
	return p.Token != ""
}

// HasRole reports whether the stored profile carries role.
func (p Principal) HasRole(role domain.Role) bool {
	return p.User != nil && p.User.Role == role
}

// Role returns the stored profile's role, defaulting to buyer.
func (p Principal) Role() domain.Role {
	if p.User == nil || p.User.Role == "" {
		return domain.RoleBuyer
	}
	return p.User.Role
}

// Service manages stored credentials for every client.
type Service struct {
	backend state.Backend
	auth    authAPI
	logger  *log.Logger
}

// New builds a Service storing credentials on backend.
func New(backend state.Backend, auth authAPI, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{backend: backend, auth: auth, logger: logger}
}

// Resolve reads the stored credentials of clientID.
func (s *Service) Resolve(ctx context.Context, clientID string) (Principal, error) {
	store := state.Scope(s.backend, clientID)
	p := Principal{ClientID: clientID}

	raw, err := store.Get(ctx, TokenKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return Principal{}, fmt.Errorf("read token: %w", err)
	default:
		p.Token = strings.TrimSpace(string(raw))
	}

	user, err := s.currentUser(ctx, store)
	if err != nil {
		return Principal{}, err
	}
	p.User = user
	return p, nil
}

// Login signs clientID in and stores the token and profile.
func (s *Service) Login(ctx context.Context, clientID, email, password string) (Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		switch backend.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusBadRequest, http.StatusForbidden:
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return Principal{}, ErrInvalidCredentials
	}

	store := state.Scope(s.backend, clientID)
	userBlob, err := state.EncodeValue(res.User)
	if err != nil {
		return Principal{}, err
	}
	if err := store.Put(ctx, TokenKey, []byte(res.Token)); err != nil {
		return Principal{}, fmt.Errorf("store token: %w", err)
	}
	if err := store.Put(ctx, UserKey, userBlob); err != nil {
		return Principal{}, fmt.Errorf("store user: %w", err)
	}
	user := res.User
	return Principal{ClientID: clientID, Token: res.Token, User: &user}, nil
}

// Register creates an account. It does not sign the client in.
func (s *Service) Register(ctx context.Context, in domain.Registration) (domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = domain.RoleBuyer
	}
	return s.auth.Register(ctx, in)
}

// Logout forgets the token and profile of clientID.
func (s *Service) Logout(ctx context.Context, clientID string) error {
	store := state.Scope(s.backend, clientID)
	if err := store.Delete(ctx, TokenKey); err != nil {
		return err
	}
	return store.Delete(ctx, UserKey)
}

// currentUser fails soft: an unreadable profile is deleted and reported as
// absent.
func (s *Service) currentUser(ctx context.Context, store state.Backend) (*domain.User, error) {
	raw, err := store.Get(ctx, UserKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	var user domain.User
	ok, err := state.DecodeValue(raw, &user)
	if err != nil {
		s.logger.Printf("discarding unreadable user profile: %v", err)
		if derr := store.Delete(ctx, UserKey); derr != nil {
			s.logger.Printf("discard user profile: %v", derr)
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}
