// Package store persists user records. Two backends exist: SQLite, which
// shares the database holding audit events, and MongoDB.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/devconnector-be/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email unique index rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists and retrieves users keyed by a unique email.
type UserStore interface {
	// FindByEmail returns the user including its password hash.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindByID returns the user with PasswordHash left empty.
	FindByID(ctx context.Context, id string) (models.User, error)
	// Create inserts u, filling in ID and CreatedAt.
	Create(ctx context.Context, u *models.User) error
}
