// Package homeassistant provides WebSocket message types for the Home
// Assistant event stream used by the cache watcher.
package homeassistant

import (
	"encoding/json"
	"fmt"
)

// wsAuthMessage is sent to authenticate with Home Assistant.
type wsAuthMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// wsAuthResponse covers auth_required, auth_ok, and auth_invalid.
type wsAuthResponse struct {
	Type      string `json:"type"`
	HAVersion string `json:"ha_version,omitempty"`
	Message   string `json:"message,omitempty"`
}

// wsSubscribeCommand subscribes to an event type.
type wsSubscribeCommand struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type"`
}

// wsEnvelope is the base shape of every server-sent message.
type wsEnvelope struct {
	ID      int64           `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
}

// wsStateChangedEvent carries the entity ID of a state_changed event.
type wsStateChangedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string `json:"entity_id"`
	} `json:"data"`
}

// parseMessageType extracts the type field of a raw WebSocket message.
func parseMessageType(data []byte) (string, error) {
	var env wsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("parsing message: %w", err)
	}
	return env.Type, nil
}
