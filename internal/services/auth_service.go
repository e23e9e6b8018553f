package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/isdelr/devconnector-be/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer mints signed tokens for a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthServiceProvider defines the interface for the authentication flow.
type AuthServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID string) (models.User, error)
}

// AuthService registers users, checks credentials and issues tokens.
type AuthService struct {
	users  store.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	events EventServiceProvider
	avatar func(email string) string
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(users store.UserStore, hasher PasswordHasher, tokens TokenIssuer, events EventServiceProvider) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		avatar: auth.GravatarURL,
	}
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.record(ctx, models.EventRegisterDuplicate, "warn", "Registration attempt for existing email", nil)
		return "", ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Avatar:       s.avatar(email),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// Lost the race between lookup and insert.
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.record(ctx, models.EventRegisterDuplicate, "warn", "Registration attempt for existing email", nil)
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.record(ctx, models.EventRegister, "info", fmt.Sprintf("User '%s' registered", user.Name), &user.ID)
	return token, nil
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.record(ctx, models.EventLoginFail, "warn", "Login failed", nil)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user by email: %w", err)
	}

	match, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		s.record(ctx, models.EventLoginFail, "warn", "Login failed", nil)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.record(ctx, models.EventLogin, "info", fmt.Sprintf("User '%s' logged in", user.Name), &user.ID)
	return token, nil
}

// CurrentUser returns the user for an authenticated ID, without its password hash.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user %s: %w", userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}

// record writes an audit event. Failures are logged, never returned.
func (s *AuthService) record(ctx context.Context, eventType, level, message string, userID *string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record auth event")
	}
}
