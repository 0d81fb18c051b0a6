// Package homeassistant provides types for the Home Assistant REST API.
package homeassistant

import (
	"strings"
	"time"
)

// Entity represents a Home Assistant entity state as returned by
// GET /api/states and GET /api/states/{entity_id}.
type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
	Context     Context        `json:"context"`
}

// Context represents the context of a state change.
type Context struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// Domain returns the domain prefix of the entity ID (the part before the
// first dot), or "" when the ID is malformed.
func (e Entity) Domain() string {
	if idx := strings.Index(e.EntityID, "."); idx > 0 {
		return e.EntityID[:idx]
	}
	return ""
}

// FriendlyName returns the friendly_name attribute, falling back to the
// entity ID when the attribute is absent.
func (e Entity) FriendlyName() string {
	if name := e.StringAttr("friendly_name"); name != "" {
		return name
	}
	return e.EntityID
}

// StringAttr safely extracts a string attribute.
// Returns "" if the key doesn't exist or the value is not a string.
func (e Entity) StringAttr(key string) string {
	if v, ok := e.Attributes[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// FloatAttr safely extracts a numeric attribute.
// The second return value reports whether the attribute exists as a number.
func (e Entity) FloatAttr(key string) (float64, bool) {
	if v, ok := e.Attributes[key]; ok {
		if f, ok := v.(float64); ok {
			return f, true
		}
	}
	return 0, false
}

// BoolAttr safely extracts a boolean attribute, defaulting to false.
func (e Entity) BoolAttr(key string) bool {
	if v, ok := e.Attributes[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// ListAttr safely extracts a list attribute.
// Returns nil if the key doesn't exist or the value is not a JSON array.
func (e Entity) ListAttr(key string) []any {
	if v, ok := e.Attributes[key]; ok {
		if l, ok := v.([]any); ok {
			return l
		}
	}
	return nil
}

// StringListAttr extracts a list attribute whose elements are strings,
// skipping non-string elements.
func (e Entity) StringListAttr(key string) []string {
	list := e.ListAttr(key)
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// LogEntry represents one record from GET /api/error/all.
type LogEntry struct {
	Name            string  `json:"name"`
	Message         any     `json:"message"` // string or array of strings
	Level           string  `json:"level"`
	Source          []any   `json:"source,omitempty"`
	Timestamp       float64 `json:"timestamp"`
	TimestampPretty string  `json:"timestamp_pretty,omitempty"`
}

// MessageText flattens the message field, which Home Assistant returns
// either as a string or as an array of strings.
func (l LogEntry) MessageText() string {
	switch m := l.Message.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, v := range m {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// APIStatus is the response of GET /api/.
type APIStatus struct {
	Message string `json:"message"`
}

// ServiceResult reports the outcome of one entity in a best-effort batch
// service call.
type ServiceResult struct {
	EntityID string
	Err      error
}
