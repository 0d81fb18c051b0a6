package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// LockHandlers provides lock status and control tools.
type LockHandlers struct{}

// NewLockHandlers creates a new LockHandlers instance.
func NewLockHandlers() *LockHandlers {
	return &LockHandlers{}
}

// RegisterTools registers all lock tools with the registry.
func (h *LockHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getLockStatusTool(), h.handleGetLockStatus)
	registry.RegisterTool(h.controlLockTool(), h.handleControlLock)
}

func (h *LockHandlers) getLockStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_lock_status",
		Description: "Gets the current status of a lock.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the lock.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *LockHandlers) controlLockTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_lock",
		Description: "Locks, unlocks, or opens a lock.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the lock.",
				},
				"state": {
					Type:        "string",
					Description: "The desired state. Must be \"lock\", \"unlock\", or \"open\".",
					Enum:        []string{"lock", "unlock", "open"},
				},
			},
			Required: []string{"device_name", "state"},
		},
	}
}

// resolveLock resolves a device name and checks it is a lock.
func resolveLock(ctx context.Context, session homeassistant.Session, deviceName string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return nil, errResult
	}
	if entity.Domain() != "lock" {
		return nil, mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a lock.", deviceName))
	}
	return entity, nil
}

func (h *LockHandlers) handleGetLockStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveLock(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve lock status for '%s'.", deviceName)), nil
	}

	name := state.FriendlyName()
	switch state.State {
	case "locked":
		return mcp.NewTextResult(fmt.Sprintf("The %s is currently locked.", name)), nil
	case "unlocked":
		return mcp.NewTextResult(fmt.Sprintf("The %s is currently unlocked.", name)), nil
	default:
		return mcp.NewTextResult(fmt.Sprintf("The status of %s is %s.", name, state.State)), nil
	}
}

func (h *LockHandlers) handleControlLock(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	state, ok := stringArg(args, "state")
	if !ok {
		return missingArg("state"), nil
	}

	entity, errResult := resolveLock(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state = strings.ToLower(state)
	serviceMap := map[string]string{"lock": "lock", "unlock": "unlock", "open": "open"}
	service, ok := serviceMap[state]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid state '%s'. Must be 'lock', 'unlock', or 'open'.", state)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if errResult := callService(ctx, session, "lock", service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully processed action '%s' for %s.", state, deviceName)), nil
}
