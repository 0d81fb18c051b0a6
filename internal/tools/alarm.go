package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// validAlarmStates are the states accepted by control_alarm.
var validAlarmStates = []string{"arm_home", "arm_away", "arm_night", "disarm"}

// AlarmHandlers provides alarm control panel status and arm/disarm tools.
type AlarmHandlers struct{}

// NewAlarmHandlers creates a new AlarmHandlers instance.
func NewAlarmHandlers() *AlarmHandlers {
	return &AlarmHandlers{}
}

// RegisterTools registers all alarm tools with the registry.
func (h *AlarmHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getAlarmStatusTool(), h.handleGetAlarmStatus)
	registry.RegisterTool(h.controlAlarmTool(), h.handleControlAlarm)
}

func (h *AlarmHandlers) getAlarmStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_alarm_status",
		Description: "Gets the current status of an alarm control panel.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the alarm system.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *AlarmHandlers) controlAlarmTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_alarm",
		Description: "Arms or disarms an alarm control panel.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the alarm system.",
				},
				"state": {
					Type:        "string",
					Description: "The desired state: \"arm_home\", \"arm_away\", \"arm_night\", \"disarm\".",
					Enum:        validAlarmStates,
				},
			},
			Required: []string{"device_name", "state"},
		},
	}
}

// resolveAlarm resolves a device name and checks it is an alarm control panel.
func resolveAlarm(ctx context.Context, session homeassistant.Session, deviceName string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return nil, errResult
	}
	if entity.Domain() != "alarm_control_panel" {
		return nil, mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not an alarm control panel.", deviceName))
	}
	return entity, nil
}

func (h *AlarmHandlers) handleGetAlarmStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveAlarm(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve alarm status for '%s'.", deviceName)), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("The %s is currently %s.", state.FriendlyName(), humanize(state.State))), nil
}

func (h *AlarmHandlers) handleControlAlarm(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	state, ok := stringArg(args, "state")
	if !ok {
		return missingArg("state"), nil
	}

	entity, errResult := resolveAlarm(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state = strings.ToLower(state)
	valid := false
	for _, s := range validAlarmStates {
		if s == state {
			valid = true
			break
		}
	}
	if !valid {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid state '%s'. Must be one of: %s.", state, strings.Join(validAlarmStates, ", "))), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if code := session.AlarmCode(); code != "" {
		payload["code"] = code
	}

	// Home Assistant names these services alarm_arm_home, alarm_disarm, etc.
	service := "alarm_" + state
	if errResult := callService(ctx, session, "alarm_control_panel", service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully processed action '%s' for %s.", strings.ReplaceAll(state, "_", " "), deviceName)), nil
}
