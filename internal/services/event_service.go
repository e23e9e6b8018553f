package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devconnector-be/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	PruneEvents(ctx context.Context, before time.Time) (int64, error)
}

// EventBroadcaster fans recorded events out to live subscribers.
type EventBroadcaster interface {
	BroadcastEvent(event models.Event)
}

// EventService provides business logic for event management.
type EventService struct {
	db          *sql.DB
	broadcaster EventBroadcaster
	now         func() time.Time
}

// NewEventService creates a new EventService. broadcaster may be nil.
func NewEventService(db *sql.DB, broadcaster EventBroadcaster) *EventService {
	return &EventService{db: db, broadcaster: broadcaster, now: time.Now}
}

// CreateEvent logs a new event to the database and broadcasts it.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(event)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneEvents deletes events created before the cutoff and reports how many went.
func (s *EventService) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
