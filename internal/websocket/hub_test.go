package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil, false
	}
}

func TestHub_BroadcastEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	a := &Client{hub: hub, Send: make(chan []byte, 4), UserID: "a"}
	b := &Client{hub: hub, Send: make(chan []byte, 4), UserID: "b"}
	require.True(t, hub.Join(a))
	require.True(t, hub.Join(b))

	hub.BroadcastEvent(models.Event{ID: "e1", Type: models.EventLogin, Level: "info"})

	for _, c := range []*Client{a, b} {
		raw, ok := receive(t, c.Send)
		require.True(t, ok)

		var msg struct {
			Action  string       `json:"action"`
			Payload models.Event `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, ActionEvent, msg.Action)
		assert.Equal(t, "e1", msg.Payload.ID)
		assert.Equal(t, models.EventLogin, msg.Payload.Type)
	}
}

func TestHub_LeaveClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	c := &Client{hub: hub, Send: make(chan []byte, 1)}
	require.True(t, hub.Join(c))
	hub.Leave(c)

	_, ok := receive(t, c.Send)
	assert.False(t, ok)
}

func TestHub_StopClosesClientsAndRejectsJoins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{hub: hub, Send: make(chan []byte, 1)}
	require.True(t, hub.Join(c))
	cancel()
	<-stopped

	_, ok := receive(t, c.Send)
	assert.False(t, ok)
	assert.False(t, hub.Join(&Client{hub: hub, Send: make(chan []byte, 1)}))
	hub.Leave(c) // must not block
}

func TestNewErrorMessage(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal(NewErrorMessage("boom"), &msg))
	assert.Equal(t, ActionError, msg.Action)
	assert.Equal(t, map[string]interface{}{"message": "boom"}, msg.Payload)
}
