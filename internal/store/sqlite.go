package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devconnector-be/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteUserStore keeps users in the "users" table.
type SQLiteUserStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteUserStore creates a SQLiteUserStore over an already migrated db.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db, now: time.Now}
}

// FindByEmail retrieves a single user by email, including the password hash.
func (s *SQLiteUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, name, email, avatar, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// FindByID retrieves a single user by ID without the password hash.
func (s *SQLiteUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, name, email, avatar, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts a new user. A unique violation on email yields ErrDuplicateEmail.
func (s *SQLiteUserStore) Create(ctx context.Context, u *models.User) error {
	id := uuid.New().String()
	createdAt := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, avatar, password_hash, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		id, u.Name, u.Email, u.Avatar, u.PasswordHash, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}

	u.ID = id
	u.CreatedAt = createdAt
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
