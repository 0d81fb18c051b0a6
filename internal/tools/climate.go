package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// validHVACModes are the HVAC modes accepted by set_thermostat_attributes.
var validHVACModes = []string{"heat", "cool", "off", "heat_cool", "auto", "dry", "fan_only"}

// ClimateHandlers provides thermostat status and control tools.
type ClimateHandlers struct{}

// NewClimateHandlers creates a new ClimateHandlers instance.
func NewClimateHandlers() *ClimateHandlers {
	return &ClimateHandlers{}
}

// RegisterTools registers all climate tools with the registry.
func (h *ClimateHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getThermostatStatusTool(), h.handleGetThermostatStatus)
	registry.RegisterTool(h.setThermostatAttributesTool(), h.handleSetThermostatAttributes)
}

func (h *ClimateHandlers) getThermostatStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_thermostat_status",
		Description: "Gets the detailed status of a thermostat (climate device).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the thermostat.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *ClimateHandlers) setThermostatAttributesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "set_thermostat_attributes",
		Description: "Sets the temperature and/or HVAC mode for a thermostat (climate device).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the thermostat.",
				},
				"temperature": {
					Type:        "number",
					Description: "The target temperature to set.",
				},
				"hvac_mode": {
					Type:        "string",
					Description: "The desired HVAC mode (e.g., \"heat\", \"cool\", \"off\", \"heat_cool\").",
					Enum:        validHVACModes,
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *ClimateHandlers) handleGetThermostatStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "climate" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a thermostat.", deviceName)), nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve thermostat status for '%s'.", deviceName)), nil
	}

	tempUnit := state.StringAttr("temperature_unit")
	if tempUnit == "" {
		tempUnit = "°"
	}
	hvacAction := state.StringAttr("hvac_action")
	if hvacAction == "" {
		hvacAction = "unknown"
	}

	lines := []string{fmt.Sprintf("Status for %s (%s):", deviceName, state.State)}
	if current, ok := state.FloatAttr("current_temperature"); ok {
		lines = append(lines, fmt.Sprintf("- Current Temperature: %v%s", current, tempUnit))
	}
	if target, ok := state.FloatAttr("temperature"); ok {
		lines = append(lines, fmt.Sprintf("- Target Temperature: %v%s", target, tempUnit))
	}
	lines = append(lines, fmt.Sprintf("- Action: %s", humanize(hvacAction)))
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *ClimateHandlers) handleSetThermostatAttributes(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "climate" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a thermostat.", deviceName)), nil
	}

	var results []string

	if hvacMode := strings.ToLower(optionalStringArg(args, "hvac_mode")); hvacMode != "" {
		valid := false
		for _, m := range validHVACModes {
			if m == hvacMode {
				valid = true
				break
			}
		}
		if !valid {
			return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid HVAC mode '%s'. Valid modes are: %s.", hvacMode, strings.Join(validHVACModes, ", "))), nil
		}

		payload := map[string]any{"entity_id": entity.EntityID, "hvac_mode": hvacMode}
		if errResult := callService(ctx, session, "climate", "set_hvac_mode", payload); errResult != nil {
			return errResult, nil
		}
		results = append(results, fmt.Sprintf("set mode to %s", hvacMode))
	}

	if temperature, ok := optionalFloatArg(args, "temperature"); ok {
		payload := map[string]any{"entity_id": entity.EntityID, "temperature": temperature}
		if errResult := callService(ctx, session, "climate", "set_temperature", payload); errResult != nil {
			return errResult, nil
		}
		results = append(results, fmt.Sprintf("set temperature to %v", temperature))
	}

	if len(results) == 0 {
		return mcp.NewTextResult("No action taken. Please specify a temperature or HVAC mode to set."), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully processed actions for %s: %s.", deviceName, strings.Join(results, ", "))), nil
}
