package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login and current-user requests.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles user authentication and token generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeErrors(w, FieldError{Msg: msgInvalidBody})
		return
	}
	if err := payload.Validate(); err != nil {
		if errs, ok := fieldErrors(err, "email", "password"); ok {
			writeErrors(w, errs...)
			return
		}
		log.Error().Err(err).Msg("Failed to validate login payload")
		writeServerError(w)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Email, *payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeErrors(w, FieldError{Msg: msgInvalidCredentials})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user id from context")
		writeServerError(w)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load current user")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
