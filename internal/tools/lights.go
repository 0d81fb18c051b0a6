package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// LightHandlers provides the advanced light control tool.
type LightHandlers struct{}

// NewLightHandlers creates a new LightHandlers instance.
func NewLightHandlers() *LightHandlers {
	return &LightHandlers{}
}

// RegisterTools registers all light tools with the registry.
func (h *LightHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.setLightAttributesTool(), h.handleSetLightAttributes)
}

func (h *LightHandlers) setLightAttributesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "set_light_attributes",
		Description: "Controls multiple attributes of a light in a single command. This is the primary function for controlling lights.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the light to control.",
				},
				"state": {
					Type:        "string",
					Description: "The desired state, either \"on\" or \"off\". If other attributes are set, the light will be turned on.",
					Enum:        []string{"on", "off"},
				},
				"brightness_percent": {
					Type:        "integer",
					Description: "The desired brightness level as a percentage from 0 to 100.",
					Minimum:     f64(0),
					Maximum:     f64(100),
				},
				"color_name": {
					Type:        "string",
					Description: "The desired color, specified by name (e.g., \"red\", \"blue\", \"green\").",
				},
				"kelvin": {
					Type:        "integer",
					Description: "The desired color temperature in Kelvin (e.g., 2700 for warm white, 6500 for cool white).",
					Minimum:     f64(1000),
					Maximum:     f64(10000),
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *LightHandlers) handleSetLightAttributes(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "light" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a light. Use the 'control_device_state' function for non-light devices.", deviceName)), nil
	}

	state := strings.ToLower(optionalStringArg(args, "state"))

	// An explicit "off" wins over every other attribute.
	if state == "off" {
		payload := map[string]any{"entity_id": entity.EntityID}
		if errResult := callService(ctx, session, "light", "turn_off", payload); errResult != nil {
			return errResult, nil
		}
		return mcp.NewTextResult(fmt.Sprintf("Successfully turned off the %s.", deviceName)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	var changes []string

	if brightness, ok := optionalIntArg(args, "brightness_percent"); ok {
		if brightness < 0 || brightness > 100 {
			return mcp.NewErrorResult("Error: Brightness must be a percentage between 0 and 100."), nil
		}
		payload["brightness_pct"] = brightness
		changes = append(changes, fmt.Sprintf("brightness to %d%%", brightness))
	}

	if colorName := optionalStringArg(args, "color_name"); colorName != "" {
		payload["color_name"] = strings.ToLower(colorName)
		changes = append(changes, fmt.Sprintf("color to %s", colorName))
	}

	if kelvin, ok := optionalIntArg(args, "kelvin"); ok {
		if kelvin < 1000 || kelvin > 10000 {
			return mcp.NewErrorResult("Error: Kelvin temperature must be an integer, typically between 1000 and 10000."), nil
		}
		payload["color_temp_kelvin"] = kelvin
		changes = append(changes, fmt.Sprintf("color temperature to %dK", kelvin))
	}

	if len(changes) == 0 && state != "on" {
		return mcp.NewTextResult("No action taken. Please specify a state ('on'/'off') or at least one attribute to change for the light."), nil
	}

	if errResult := callService(ctx, session, "light", "turn_on", payload); errResult != nil {
		return errResult, nil
	}
	if len(changes) > 0 {
		return mcp.NewTextResult(fmt.Sprintf("Successfully set %s with %s.", deviceName, strings.Join(changes, ", "))), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully turned on %s.", deviceName)), nil
}
