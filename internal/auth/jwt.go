package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ErrInvalidToken is returned by Parse for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the JWT claims structure: {"user":{"id":...}} plus iat/exp.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

// ClaimsUser is the identity embedded in a token.
type ClaimsUser struct {
	ID string `json:"id"`
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. Tokens expire ttl after issuance.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the given user ID.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	now := i.now()
	claims := &Claims{
		User: ClaimsUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey string

const userIDKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom extracts the authenticated user ID placed by Middleware.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Middleware creates a middleware for protecting routes. The token is read
// from x-auth-token, then an Authorization bearer header.
func (i *TokenIssuer) Middleware() func(http.Handler) http.Handler {
	return i.middleware(false)
}

// WebSocketMiddleware is Middleware that also accepts the "token" query
// parameter. Browsers cannot set headers on websocket upgrades, so mount it
// only on upgrade routes.
func (i *TokenIssuer) WebSocketMiddleware() func(http.Handler) http.Handler {
	return i.middleware(true)
}

func (i *TokenIssuer) middleware(allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromHeaders(r)
			if tokenStr == "" && allowQuery {
				tokenStr = r.URL.Query().Get("token")
			}
			if tokenStr == "" {
				writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			claims, err := i.Parse(tokenStr)
			if err != nil {
				log.Debug().Err(err).Msg("Rejected auth token")
				writeMsg(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.User.ID)))
		})
	}
}

func tokenFromHeaders(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("x-auth-token")); t != "" {
		return t
	}
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
