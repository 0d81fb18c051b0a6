package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// CoverHandlers provides the cover control tool for blinds, curtains, and
// garage doors.
type CoverHandlers struct{}

// NewCoverHandlers creates a new CoverHandlers instance.
func NewCoverHandlers() *CoverHandlers {
	return &CoverHandlers{}
}

// RegisterTools registers all cover tools with the registry.
func (h *CoverHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.controlCoverTool(), h.handleControlCover)
}

func (h *CoverHandlers) controlCoverTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_cover",
		Description: "Controls covers like blinds, curtains, or garage doors.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the cover to control.",
				},
				"state": {
					Type:        "string",
					Description: "The desired state. Can be \"open\", \"close\", \"stop\", or a position percentage (e.g., \"50\").",
				},
			},
			Required: []string{"device_name", "state"},
		},
	}
}

func (h *CoverHandlers) handleControlCover(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
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

	if entity.Domain() != "cover" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a cover.", deviceName)), nil
	}

	// A numeric state is a position percentage.
	if position, err := strconv.Atoi(state); err == nil {
		if position < 0 || position > 100 {
			return mcp.NewErrorResult("Error: Cover position must be a percentage between 0 and 100."), nil
		}
		payload := map[string]any{"entity_id": entity.EntityID, "position": position}
		if errResult := callService(ctx, session, "cover", "set_cover_position", payload); errResult != nil {
			return errResult, nil
		}
		return mcp.NewTextResult(fmt.Sprintf("Successfully processed action for %s: set position to %d%%.", deviceName, position)), nil
	}

	state = strings.ToLower(state)
	serviceMap := map[string]string{"open": "open_cover", "close": "close_cover", "stop": "stop_cover"}
	service, ok := serviceMap[state]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid state '%s'. Must be 'open', 'close', 'stop', or a position percentage.", state)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if errResult := callService(ctx, session, "cover", service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully processed action for %s: %s.", deviceName, state)), nil
}
