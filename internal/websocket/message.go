package websocket

import "encoding/json"

// Actions sent to clients.
const (
	ActionEvent = "event"
	ActionError = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage encodes an error message for a client.
func NewErrorMessage(text string) []byte {
	b, _ := json.Marshal(Message{Action: ActionError, Payload: map[string]string{"message": text}})
	return b
}
