package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// DeviceHandlers provides generic on/off control and status tools that work
// across all device domains.
type DeviceHandlers struct{}

// NewDeviceHandlers creates a new DeviceHandlers instance.
func NewDeviceHandlers() *DeviceHandlers {
	return &DeviceHandlers{}
}

// RegisterTools registers all generic device tools with the registry.
func (h *DeviceHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.controlDeviceStateTool(), h.handleControlDeviceState)
	registry.RegisterTool(h.getDeviceStatusTool(), h.handleGetDeviceStatus)
	registry.RegisterTool(h.listAvailableEntitiesTool(), h.handleListAvailableEntities)
	registry.RegisterTool(h.controlAllDevicesTool(), h.handleControlAllDevices)
}

func (h *DeviceHandlers) controlDeviceStateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_device_state",
		Description: "Performs simple on/off control for any device. For advanced light controls (brightness, color), use the 'set_light_attributes' function.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the device to control, for example, \"Bedroom Fan\" or \"Coffee Machine\".",
				},
				"state": {
					Type:        "string",
					Description: "The desired state for the device. Must be \"on\" or \"off\".",
					Enum:        []string{"on", "off"},
				},
			},
			Required: []string{"device_name", "state"},
		},
	}
}

func (h *DeviceHandlers) getDeviceStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_device_status",
		Description: "Checks and returns the current status of a specific device in Home Assistant.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the device to check, for example, \"Front Door Lock\" or \"Living Room Thermostat\".",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *DeviceHandlers) listAvailableEntitiesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_available_entities",
		Description: "Lists all available entities of a specific type (e.g., lights, switches, scenes) by their friendly names.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"entity_type": {
					Type:        "string",
					Description: "The type of entity to list (e.g., \"lights\", \"switches\", \"scenes\", \"automations\", \"sensors\", \"cameras\").",
				},
			},
			Required: []string{"entity_type"},
		},
	}
}

func (h *DeviceHandlers) controlAllDevicesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_all_devices",
		Description: "Turns every device of a specific type (e.g., all lights) on or off in a single command.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"entity_type": {
					Type:        "string",
					Description: "The type of entity to control (e.g., \"lights\", \"switches\").",
				},
				"state": {
					Type:        "string",
					Description: "The desired state for the devices. Must be \"on\" or \"off\".",
					Enum:        []string{"on", "off"},
				},
			},
			Required: []string{"entity_type", "state"},
		},
	}
}

func (h *DeviceHandlers) handleControlDeviceState(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	state, ok := stringArg(args, "state")
	if !ok {
		return missingArg("state"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	serviceMap := map[string]string{"on": "turn_on", "off": "turn_off"}
	service, ok := serviceMap[strings.ToLower(state)]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Unsupported state '%s'. Please use 'on' or 'off'.", state)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if errResult := callService(ctx, session, entity.Domain(), service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully turned %s the %s.", strings.ToLower(state), deviceName)), nil
}

func (h *DeviceHandlers) handleGetDeviceStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve state for device '%s'.", deviceName)), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("The current status of %s is %s.", deviceName, state.State)), nil
}

func (h *DeviceHandlers) handleListAvailableEntities(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	entityType, ok := stringArg(args, "entity_type")
	if !ok {
		return missingArg("entity_type"), nil
	}

	domain := CanonicalDomain(entityType)
	if domain == "" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid entity type '%s'. Please specify a valid type like 'lights', 'scenes', etc.", entityType)), nil
	}

	entities, err := session.Entities(ctx, domain)
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}

	if len(entities) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No available %s found in Home Assistant.", entityType)), nil
	}

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.FriendlyName())
	}
	return mcp.NewTextResult(fmt.Sprintf("Here are the available %s:\n- %s", entityType, strings.Join(names, "\n- "))), nil
}

func (h *DeviceHandlers) handleControlAllDevices(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	entityType, ok := stringArg(args, "entity_type")
	if !ok {
		return missingArg("entity_type"), nil
	}
	state, ok := stringArg(args, "state")
	if !ok {
		return missingArg("state"), nil
	}

	domain := CanonicalDomain(entityType)
	if domain == "" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid entity type '%s'. Please specify a valid type like 'lights', 'scenes', etc.", entityType)), nil
	}

	serviceMap := map[string]string{"on": "turn_on", "off": "turn_off"}
	service, ok := serviceMap[strings.ToLower(state)]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Unsupported state '%s'. Please use 'on' or 'off'.", state)), nil
	}

	entities, err := session.Entities(ctx, domain)
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}
	if len(entities) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No available %s found in Home Assistant.", entityType)), nil
	}

	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.EntityID)
	}

	// Best-effort: one failing device does not stop the rest.
	results := session.CallServiceBatch(ctx, domain, service, ids, nil)

	var failed []string
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.EntityID)
		} else {
			succeeded++
		}
	}

	if len(failed) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("Successfully turned %s all %d %s.", strings.ToLower(state), succeeded, entityType)), nil
	}
	summary := fmt.Sprintf("Turned %s %d of %d %s. Failed for: %s.",
		strings.ToLower(state), succeeded, len(results), entityType, strings.Join(failed, ", "))
	if succeeded == 0 {
		return mcp.NewErrorResult(summary), nil
	}
	return mcp.NewTextResult(summary), nil
}
