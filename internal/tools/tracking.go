package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// TrackerHandlers provides the person and device tracker status tool.
type TrackerHandlers struct{}

// NewTrackerHandlers creates a new TrackerHandlers instance.
func NewTrackerHandlers() *TrackerHandlers {
	return &TrackerHandlers{}
}

// RegisterTools registers all tracker tools with the registry.
func (h *TrackerHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getTrackerStatusTool(), h.handleGetTrackerStatus)
}

func (h *TrackerHandlers) getTrackerStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_tracker_status",
		Description: "Gets the location status of a person or device tracker.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the person or device tracker.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *TrackerHandlers) handleGetTrackerStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a person or device tracker")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "person" && entity.Domain() != "device_tracker" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The entity '%s' is not a person or device tracker.", deviceName)), nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve tracker status for '%s'.", deviceName)), nil
	}

	// The state for trackers is the zone name (e.g., 'home', 'work').
	lines := []string{fmt.Sprintf("Location status for %s: %s", state.FriendlyName(), humanize(state.State))}
	if battery, ok := state.FloatAttr("battery_level"); ok {
		lines = append(lines, fmt.Sprintf("- Battery: %v%%", battery))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}
