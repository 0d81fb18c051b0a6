package mcp

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
)

func noopHandler(_ context.Context, _ homeassistant.Session, _ map[string]any) (*ToolsCallResult, error) {
	return NewTextResult("ok"), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	tool := Tool{
		Name:        "get_device_status",
		Description: "Gets the status of a device.",
		InputSchema: JSONSchema{Type: "object"},
	}
	registry.RegisterTool(tool, noopHandler)

	got, exists := registry.GetTool("get_device_status")
	if !exists {
		t.Fatal("GetTool() exists = false, want true")
	}
	if diff := cmp.Diff(tool, got); diff != "" {
		t.Errorf("GetTool() mismatch (-want +got):\n%s", diff)
	}

	if _, exists := registry.GetHandler("get_device_status"); !exists {
		t.Error("GetHandler() exists = false, want true")
	}
	if _, exists := registry.GetHandler("no_such_tool"); exists {
		t.Error("GetHandler(no_such_tool) exists = true, want false")
	}
	if _, exists := registry.GetTool("no_such_tool"); exists {
		t.Error("GetTool(no_such_tool) exists = true, want false")
	}
}

func TestRegistry_ListToolsSorted(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, name := range []string{"control_lock", "activate_scene", "get_weather_forecast"} {
		registry.RegisterTool(Tool{Name: name, InputSchema: JSONSchema{Type: "object"}}, noopHandler)
	}

	tools := registry.ListTools()
	wantNames := []string{"activate_scene", "control_lock", "get_weather_forecast"}

	gotNames := make([]string, 0, len(tools))
	for _, tool := range tools {
		gotNames = append(gotNames, tool.Name)
	}
	if diff := cmp.Diff(wantNames, gotNames); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}

	if registry.ToolCount() != 3 {
		t.Errorf("ToolCount() = %d, want 3", registry.ToolCount())
	}
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterTool(Tool{Name: "ping_tool", Description: "old"}, noopHandler)
	registry.RegisterTool(Tool{Name: "ping_tool", Description: "new"}, noopHandler)

	if registry.ToolCount() != 1 {
		t.Fatalf("ToolCount() = %d, want 1", registry.ToolCount())
	}
	tool, _ := registry.GetTool("ping_tool")
	if tool.Description != "new" {
		t.Errorf("Description = %q, want new", tool.Description)
	}
}

func TestTruncateDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		desc   string
		maxLen int
		want   string
	}{
		{name: "short passes through", desc: "short", maxLen: 10, want: "short"},
		{name: "exact length passes through", desc: "1234567890", maxLen: 10, want: "1234567890"},
		{name: "long is truncated with ellipsis", desc: "12345678901", maxLen: 10, want: "1234567..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateDescription(tt.desc, tt.maxLen); got != tt.want {
				t.Errorf("truncateDescription(%q, %d) = %q, want %q", tt.desc, tt.maxLen, got, tt.want)
			}
		})
	}
}
