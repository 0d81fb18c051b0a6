package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// VacuumHandlers provides robot vacuum status and control tools.
type VacuumHandlers struct{}

// NewVacuumHandlers creates a new VacuumHandlers instance.
func NewVacuumHandlers() *VacuumHandlers {
	return &VacuumHandlers{}
}

// RegisterTools registers all vacuum tools with the registry.
func (h *VacuumHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getVacuumStatusTool(), h.handleGetVacuumStatus)
	registry.RegisterTool(h.controlVacuumTool(), h.handleControlVacuum)
}

func (h *VacuumHandlers) getVacuumStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_vacuum_status",
		Description: "Gets the detailed status of a robot vacuum cleaner.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the vacuum.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *VacuumHandlers) controlVacuumTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_vacuum",
		Description: "Controls a robot vacuum cleaner (start, stop, pause, return to base, set fan speed).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the vacuum.",
				},
				"action": {
					Type:        "string",
					Description: "The action to perform: \"start\", \"stop\", \"pause\", \"return_to_base\", \"locate\", \"set_fan_speed\".",
					Enum:        []string{"start", "stop", "pause", "return_to_base", "locate", "set_fan_speed"},
				},
				"fan_speed": {
					Type:        "string",
					Description: "The fan speed to set (e.g., \"low\", \"medium\", \"high\", \"turbo\"), only used when action is \"set_fan_speed\".",
				},
			},
			Required: []string{"device_name", "action"},
		},
	}
}

// resolveVacuum resolves a device name and checks it is a vacuum.
func resolveVacuum(ctx context.Context, session homeassistant.Session, deviceName string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return nil, errResult
	}
	if entity.Domain() != "vacuum" {
		return nil, mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a vacuum.", deviceName))
	}
	return entity, nil
}

func (h *VacuumHandlers) handleGetVacuumStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveVacuum(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve vacuum status for '%s'.", deviceName)), nil
	}

	lines := []string{fmt.Sprintf("Status for %s: %s", state.FriendlyName(), humanize(state.State))}
	if battery, ok := state.FloatAttr("battery_level"); ok {
		lines = append(lines, fmt.Sprintf("- Battery: %v%%", battery))
	}
	if fanSpeed := state.StringAttr("fan_speed"); fanSpeed != "" {
		lines = append(lines, fmt.Sprintf("- Fan Speed: %s", capitalize(fanSpeed)))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *VacuumHandlers) handleControlVacuum(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	action, ok := stringArg(args, "action")
	if !ok {
		return missingArg("action"), nil
	}

	entity, errResult := resolveVacuum(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	action = strings.ToLower(action)
	payload := map[string]any{"entity_id": entity.EntityID}
	var service string

	simpleServiceMap := map[string]string{
		"start":          "start",
		"stop":           "stop",
		"pause":          "pause",
		"return_to_base": "return_to_base",
		"locate":         "locate",
	}

	switch {
	case simpleServiceMap[action] != "":
		service = simpleServiceMap[action]
	case action == "set_fan_speed":
		fanSpeed := optionalStringArg(args, "fan_speed")
		if fanSpeed == "" {
			return mcp.NewErrorResult("Error: To set fan speed, please provide a fan speed level (e.g., 'medium')."), nil
		}
		service = "set_fan_speed"
		payload["fan_speed"] = fanSpeed
	default:
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid action '%s'. Valid actions are: start, stop, pause, return_to_base, locate, set_fan_speed.", action)), nil
	}

	if errResult := callService(ctx, session, "vacuum", service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully performed action '%s' on %s.", action, deviceName)), nil
}
