package homeassistant

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEntity_Domain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entityID string
		want     string
	}{
		{name: "light entity", entityID: "light.kitchen", want: "light"},
		{name: "alarm panel", entityID: "alarm_control_panel.home", want: "alarm_control_panel"},
		{name: "no dot", entityID: "malformed", want: ""},
		{name: "leading dot", entityID: ".hidden", want: ""},
		{name: "empty", entityID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := Entity{EntityID: tt.entityID}
			if got := e.Domain(); got != tt.want {
				t.Errorf("Domain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntity_FriendlyName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		entity Entity
		want   string
	}{
		{
			name:   "friendly_name attribute",
			entity: Entity{EntityID: "light.kitchen", Attributes: map[string]any{"friendly_name": "Kitchen Lights"}},
			want:   "Kitchen Lights",
		},
		{
			name:   "falls back to entity ID",
			entity: Entity{EntityID: "light.kitchen", Attributes: map[string]any{}},
			want:   "light.kitchen",
		},
		{
			name:   "non-string friendly_name falls back",
			entity: Entity{EntityID: "light.kitchen", Attributes: map[string]any{"friendly_name": 42}},
			want:   "light.kitchen",
		},
		{
			name:   "nil attributes",
			entity: Entity{EntityID: "light.kitchen"},
			want:   "light.kitchen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.entity.FriendlyName(); got != tt.want {
				t.Errorf("FriendlyName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntity_AttrHelpers(t *testing.T) {
	t.Parallel()

	e := Entity{
		EntityID: "media_player.tv",
		Attributes: map[string]any{
			"app_name":        "Netflix",
			"volume_level":    0.45,
			"is_volume_muted": true,
			"source_list":     []any{"HDMI 1", "HDMI 2", 3},
		},
	}

	if got := e.StringAttr("app_name"); got != "Netflix" {
		t.Errorf("StringAttr(app_name) = %q, want Netflix", got)
	}
	if got := e.StringAttr("missing"); got != "" {
		t.Errorf("StringAttr(missing) = %q, want empty", got)
	}

	if got, ok := e.FloatAttr("volume_level"); !ok || got != 0.45 {
		t.Errorf("FloatAttr(volume_level) = %v, %t, want 0.45, true", got, ok)
	}
	if _, ok := e.FloatAttr("app_name"); ok {
		t.Error("FloatAttr(app_name) ok = true, want false")
	}

	if !e.BoolAttr("is_volume_muted") {
		t.Error("BoolAttr(is_volume_muted) = false, want true")
	}
	if e.BoolAttr("missing") {
		t.Error("BoolAttr(missing) = true, want false")
	}

	// Non-string elements are skipped.
	want := []string{"HDMI 1", "HDMI 2"}
	if diff := cmp.Diff(want, e.StringListAttr("source_list")); diff != "" {
		t.Errorf("StringListAttr(source_list) mismatch (-want +got):\n%s", diff)
	}
	if got := e.ListAttr("missing"); got != nil {
		t.Errorf("ListAttr(missing) = %v, want nil", got)
	}
}

func TestLogEntry_MessageText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry LogEntry
		want  string
	}{
		{
			name:  "string message",
			entry: LogEntry{Message: "Setup failed"},
			want:  "Setup failed",
		},
		{
			name:  "array message",
			entry: LogEntry{Message: []any{"first", "second"}},
			want:  "first; second",
		},
		{
			name:  "array with non-strings",
			entry: LogEntry{Message: []any{"first", 2}},
			want:  "first",
		},
		{
			name:  "nil message",
			entry: LogEntry{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.entry.MessageText(); got != tt.want {
				t.Errorf("MessageText() = %q, want %q", got, tt.want)
			}
		})
	}
}
