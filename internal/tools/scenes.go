package tools

import (
	"context"
	"fmt"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// SceneHandlers provides the scene activation tool.
type SceneHandlers struct{}

// NewSceneHandlers creates a new SceneHandlers instance.
func NewSceneHandlers() *SceneHandlers {
	return &SceneHandlers{}
}

// RegisterTools registers all scene tools with the registry.
func (h *SceneHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.activateSceneTool(), h.handleActivateScene)
}

func (h *SceneHandlers) activateSceneTool() mcp.Tool {
	return mcp.Tool{
		Name:        "activate_scene",
		Description: "Activates a scene in Home Assistant.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"scene_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the scene to activate.",
				},
			},
			Required: []string{"scene_name"},
		},
	}
}

func (h *SceneHandlers) handleActivateScene(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	sceneName, ok := stringArg(args, "scene_name")
	if !ok {
		return missingArg("scene_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, sceneName, "a scene")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "scene" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The entity '%s' is not a scene.", sceneName)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID}
	if errResult := callService(ctx, session, "scene", "turn_on", payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully activated the '%s' scene.", sceneName)), nil
}
