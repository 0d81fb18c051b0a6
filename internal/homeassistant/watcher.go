// Package homeassistant provides an optional WebSocket watcher that
// invalidates entity-cache domains when their entities change state.
package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/logging"
)

// cacheInvalidator is the subset of the session the watcher depends on.
type cacheInvalidator interface {
	InvalidateDomain(domain string)
}

// Watcher subscribes to state_changed events over the Home Assistant
// WebSocket API and drops the affected domain's cache entry, so the next
// lookup sees fresh state ahead of the TTL. The watcher is advisory: if it
// disconnects or never connects, the cache TTL remains the staleness bound
// and tool calls are unaffected.
type Watcher struct {
	baseURL    string
	token      string
	invalidate cacheInvalidator
	logger     *logging.Logger

	// reconnect backoff, capped
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewWatcher creates a cache watcher. It does not connect until Run.
func NewWatcher(baseURL, token string, invalidate cacheInvalidator, logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.New(logging.LevelInfo)
	}
	return &Watcher{
		baseURL:      strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/api"),
		token:        token,
		invalidate:   invalidate,
		logger:       logger,
		initialDelay: time.Second,
		maxDelay:     time.Minute,
	}
}

// Run connects, watches, and reconnects with capped backoff until the
// context is cancelled. Intended to be started in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	delay := w.initialDelay
	for {
		err := w.watch(ctx)
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("Cache watcher disconnected", "error", err, "retry_in", delay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > w.maxDelay {
			delay = w.maxDelay
		}
	}
}

// watch runs one connection lifecycle: dial, authenticate, subscribe, and
// consume events until the connection drops or the context is cancelled.
func (w *Watcher) watch(ctx context.Context) error {
	wsURL, err := w.websocketURL()
	if err != nil {
		return err
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dialing %s: %w", wsURL, err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "watcher shutting down") }()

	if err := w.authenticate(ctx, conn); err != nil {
		return err
	}

	if err := w.subscribe(ctx, conn); err != nil {
		return err
	}

	w.logger.Info("Cache watcher subscribed to state_changed events")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}

		var env wsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue // skip malformed messages
		}
		if env.Type != "event" || env.Event == nil {
			continue
		}

		var event wsStateChangedEvent
		if err := json.Unmarshal(env.Event, &event); err != nil {
			continue
		}
		if event.EventType != "state_changed" {
			continue
		}

		if idx := strings.Index(event.Data.EntityID, "."); idx > 0 {
			domain := event.Data.EntityID[:idx]
			w.invalidate.InvalidateDomain(domain)
			w.logger.Trace("Invalidated cached domain", "domain", domain, "entity_id", event.Data.EntityID)
		}
	}
}

// websocketURL converts the base URL to the /api/websocket endpoint.
func (w *Watcher) websocketURL() (string, error) {
	u, err := url.Parse(w.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a WebSocket scheme
	default:
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	u.Path = "/api/websocket"
	return u.String(), nil
}

// authenticate performs the Home Assistant WebSocket auth handshake.
func (w *Watcher) authenticate(ctx context.Context, conn *websocket.Conn) error {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading auth_required: %w", err)
	}
	msgType, err := parseMessageType(data)
	if err != nil {
		return err
	}
	if msgType != "auth_required" {
		return fmt.Errorf("expected auth_required, got %s", msgType)
	}

	authData, err := json.Marshal(wsAuthMessage{Type: "auth", AccessToken: w.token})
	if err != nil {
		return fmt.Errorf("encoding auth message: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, authData); err != nil {
		return fmt.Errorf("sending auth message: %w", err)
	}

	_, data, err = conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading auth response: %w", err)
	}

	var auth wsAuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return fmt.Errorf("parsing auth response: %w", err)
	}
	switch auth.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return &AuthError{StatusCode: 0}
	default:
		return fmt.Errorf("unexpected auth response type: %s", auth.Type)
	}
}

// subscribe sends the state_changed subscription and waits for its result.
func (w *Watcher) subscribe(ctx context.Context, conn *websocket.Conn) error {
	cmd := wsSubscribeCommand{ID: 1, Type: "subscribe_events", EventType: "state_changed"}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encoding subscribe command: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("sending subscribe command: %w", err)
	}

	_, data, err = conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading subscribe result: %w", err)
	}

	var env wsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parsing subscribe result: %w", err)
	}
	if env.Type != "result" || env.Success == nil || !*env.Success {
		return fmt.Errorf("subscription rejected: %s", string(data))
	}
	return nil
}
