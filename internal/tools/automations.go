package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// AutomationHandlers provides the automation control tool.
type AutomationHandlers struct{}

// NewAutomationHandlers creates a new AutomationHandlers instance.
func NewAutomationHandlers() *AutomationHandlers {
	return &AutomationHandlers{}
}

// RegisterTools registers all automation tools with the registry.
func (h *AutomationHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.controlAutomationTool(), h.handleControlAutomation)
}

func (h *AutomationHandlers) controlAutomationTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_automation",
		Description: "Enables, disables, or triggers an existing automation in Home Assistant.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"automation_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the automation to control.",
				},
				"state": {
					Type:        "string",
					Description: "The desired action. Must be \"on\" (enable), \"off\" (disable), or \"trigger\" (run now).",
					Enum:        []string{"on", "off", "trigger"},
				},
			},
			Required: []string{"automation_name", "state"},
		},
	}
}

func (h *AutomationHandlers) handleControlAutomation(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	automationName, ok := stringArg(args, "automation_name")
	if !ok {
		return missingArg("automation_name"), nil
	}
	state, ok := stringArg(args, "state")
	if !ok {
		return missingArg("state"), nil
	}

	entity, errResult := resolveDevice(ctx, session, automationName, "an automation")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "automation" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The entity '%s' is not an automation.", automationName)), nil
	}

	state = strings.ToLower(state)
	serviceMap := map[string]string{"on": "turn_on", "off": "turn_off", "trigger": "trigger"}
	service, ok := serviceMap[state]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid state '%s'. Must be 'on', 'off', or 'trigger'.", state)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if errResult := callService(ctx, session, "automation", service, payload); errResult != nil {
		return errResult, nil
	}

	actionMap := map[string]string{"on": "enabled", "off": "disabled", "trigger": "triggered"}
	return mcp.NewTextResult(fmt.Sprintf("Successfully %s the '%s' automation.", actionMap[state], automationName)), nil
}
