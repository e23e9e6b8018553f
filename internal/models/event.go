package models

import "time"

// Event types recorded by the auth flow.
const (
	EventRegister          = "auth.register"
	EventRegisterDuplicate = "auth.register.duplicate"
	EventLogin             = "auth.login"
	EventLoginFail         = "auth.login.fail"
)

// Event represents an auditable authentication action.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "auth.login", "auth.register"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nil for failed logins and duplicate registrations
	CreatedAt time.Time `json:"createdAt"`
}
