package repository

import (
	"context"
	"errors"

	"trustbridge-auth/internal/domain"
)

// ErrAccountNotFound is returned when no account matches an identifier.
var ErrAccountNotFound = errors.New("account not found")

// DirectoryRepository persists the whole account directory under one key.
type DirectoryRepository interface {
	// Load returns the stored directory. Malformed content yields an empty
	// directory rather than an error.
	Load(ctx context.Context) (*domain.Directory, error)
	// Save replaces the stored directory entirely.
	Save(ctx context.Context, dir *domain.Directory) error
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
}

// SessionRepository persists the single active session pointer.
type SessionRepository interface {
	// Current returns the active session, or nil when there is none.
	Current(ctx context.Context) (*domain.PublicUser, error)
	IsActive(ctx context.Context) (bool, error)
	// Establish replaces any previous session.
	Establish(ctx context.Context, user domain.PublicUser) error
	Clear(ctx context.Context) error
}
