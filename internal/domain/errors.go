package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates the client has no stored auth token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden indicates the client's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
)
