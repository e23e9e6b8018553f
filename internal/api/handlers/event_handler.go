package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// EventHandler handles HTTP requests related to auth audit events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent auth events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
