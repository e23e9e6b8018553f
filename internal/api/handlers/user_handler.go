package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user registration.
type UserHandler struct {
	service services.AuthServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.AuthServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles new user registration and returns a token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeErrors(w, FieldError{Msg: msgInvalidBody})
		return
	}
	if err := payload.Validate(); err != nil {
		if errs, ok := fieldErrors(err, "name", "email", "password"); ok {
			writeErrors(w, errs...)
			return
		}
		log.Error().Err(err).Msg("Failed to validate registration payload")
		writeServerError(w)
		return
	}

	token, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			writeErrors(w, FieldError{Msg: msgUserExists})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
