package tools

import (
	"context"
	"testing"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
)

func TestGetErrorLogs(t *testing.T) {
	t.Parallel()

	logs := []homeassistant.LogEntry{
		{TimestampPretty: "2026-08-27 10:05:00", Message: "Setup of light.flaky failed"},
		{TimestampPretty: "2026-08-27 09:58:12", Message: []any{"Template error", "in sensor.broken"}},
		{Message: "Recorder queue full"},
	}

	tests := []struct {
		name        string
		args        map[string]any
		wantText    string
		wantIsError bool
	}{
		{
			name: "default limit shows all three",
			args: map[string]any{},
			wantText: "Recent Home Assistant Error Logs:\n" +
				"- [2026-08-27 10:05:00] Setup of light.flaky failed\n" +
				"- [2026-08-27 09:58:12] Template error; in sensor.broken\n" +
				"- [No timestamp] Recorder queue full",
		},
		{
			name: "limit caps the output",
			args: map[string]any{"limit": float64(1)},
			wantText: "Recent Home Assistant Error Logs:\n" +
				"- [2026-08-27 10:05:00] Setup of light.flaky failed",
		},
		{
			name:        "limit too large",
			args:        map[string]any{"limit": float64(50)},
			wantText:    "Error: Limit must be between 1 and 20.",
			wantIsError: true,
		},
		{
			name:        "limit below one",
			args:        map[string]any{"limit": float64(0)},
			wantText:    "Error: Limit must be between 1 and 20.",
			wantIsError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := &fakeSession{logEntries: logs}
			h := NewDiagnosticsHandlers()

			result, err := h.handleGetErrorLogs(context.Background(), session, tt.args)
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if result.IsError != tt.wantIsError {
				t.Errorf("IsError = %t, want %t", result.IsError, tt.wantIsError)
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestGetErrorLogs_Empty(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	h := NewDiagnosticsHandlers()

	result, err := h.handleGetErrorLogs(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	want := "No error logs found in Home Assistant."
	if got := resultText(t, result); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestGetPersistentNotifications(t *testing.T) {
	t.Parallel()

	t.Run("active notifications", func(t *testing.T) {
		t.Parallel()

		session := &fakeSession{entities: []homeassistant.Entity{
			entity("persistent_notification.update_available", "notifying", "Update Available", nil),
			{EntityID: "persistent_notification.untitled", State: "notifying"},
		}}
		h := NewDiagnosticsHandlers()

		result, err := h.handleGetPersistentNotifications(context.Background(), session, nil)
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		want := "The following notifications are active:\n" +
			"- Update Available: notifying\n" +
			"- Notification: notifying"
		if got := resultText(t, result); got != want {
			t.Errorf("text = %q, want %q", got, want)
		}
	})

	t.Run("none active", func(t *testing.T) {
		t.Parallel()

		session := &fakeSession{}
		h := NewDiagnosticsHandlers()

		result, err := h.handleGetPersistentNotifications(context.Background(), session, nil)
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		want := "There are no active notifications in Home Assistant."
		if got := resultText(t, result); got != want {
			t.Errorf("text = %q, want %q", got, want)
		}
	})
}
