package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// MediaHandlers provides media player status, source, and playback tools.
type MediaHandlers struct{}

// NewMediaHandlers creates a new MediaHandlers instance.
func NewMediaHandlers() *MediaHandlers {
	return &MediaHandlers{}
}

// RegisterTools registers all media player tools with the registry.
func (h *MediaHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getMediaPlayerSourcesTool(), h.handleGetMediaPlayerSources)
	registry.RegisterTool(h.getMediaPlayerStatusTool(), h.handleGetMediaPlayerStatus)
	registry.RegisterTool(h.setMediaPlayerSourceTool(), h.handleSetMediaPlayerSource)
	registry.RegisterTool(h.controlMediaPlaybackTool(), h.handleControlMediaPlayback)
}

func (h *MediaHandlers) getMediaPlayerSourcesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_media_player_sources",
		Description: "Lists all available media sources for a specific media player (e.g., a TV or smart speaker).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the media player.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *MediaHandlers) getMediaPlayerStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_media_player_status",
		Description: "Gets the detailed status of a media player, including what is currently playing.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the media player.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *MediaHandlers) setMediaPlayerSourceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "set_media_player_source",
		Description: "Changes the input source for a media player (e.g., a TV or smart speaker).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the media player.",
				},
				"source_name": {
					Type:        "string",
					Description: "The name of the source to switch to (e.g., \"HDMI 1\", \"Netflix\").",
				},
			},
			Required: []string{"device_name", "source_name"},
		},
	}
}

func (h *MediaHandlers) controlMediaPlaybackTool() mcp.Tool {
	return mcp.Tool{
		Name:        "control_media_playback",
		Description: "Controls media playback for a media player (play, pause, stop, volume).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the media player.",
				},
				"action": {
					Type:        "string",
					Description: "The action to perform: \"play\", \"pause\", \"stop\", \"volume_up\", \"volume_down\", \"mute\", \"unmute\", \"set_volume\".",
					Enum:        []string{"play", "pause", "stop", "volume_up", "volume_down", "mute", "unmute", "set_volume"},
				},
				"volume_percent": {
					Type:        "integer",
					Description: "The volume level to set (0-100), only used when action is \"set_volume\".",
					Minimum:     f64(0),
					Maximum:     f64(100),
				},
			},
			Required: []string{"device_name", "action"},
		},
	}
}

// resolveMediaPlayer resolves a device name and checks it is a media player.
func resolveMediaPlayer(ctx context.Context, session homeassistant.Session, deviceName string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return nil, errResult
	}
	if entity.Domain() != "media_player" {
		return nil, mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a media player.", deviceName))
	}
	return entity, nil
}

func (h *MediaHandlers) handleGetMediaPlayerSources(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveMediaPlayer(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve media player sources for '%s'.", deviceName)), nil
	}

	sources := state.StringListAttr("source_list")
	if len(sources) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("The media player '%s' does not have a list of available sources.", deviceName)), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("The following media sources are available for %s:\n- %s", deviceName, strings.Join(sources, "\n- "))), nil
}

func (h *MediaHandlers) handleGetMediaPlayerStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveMediaPlayer(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve media player status for '%s'.", deviceName)), nil
	}

	lines := []string{fmt.Sprintf("Status for %s: %s", deviceName, capitalize(state.State))}

	if appName := state.StringAttr("app_name"); appName != "" {
		lines = append(lines, fmt.Sprintf("- App: %s", appName))
	}
	if title := state.StringAttr("media_title"); title != "" {
		if artist := state.StringAttr("media_artist"); artist != "" {
			lines = append(lines, fmt.Sprintf("- Playing: %s by %s", title, artist))
		} else {
			lines = append(lines, fmt.Sprintf("- Playing: %s", title))
		}
	}
	if volume, ok := state.FloatAttr("volume_level"); ok {
		volumeStr := fmt.Sprintf("%d%%", int(volume*100))
		if state.BoolAttr("is_volume_muted") {
			volumeStr += " (Muted)"
		}
		lines = append(lines, fmt.Sprintf("- Volume: %s", volumeStr))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *MediaHandlers) handleSetMediaPlayerSource(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	sourceName, ok := stringArg(args, "source_name")
	if !ok {
		return mcp.NewErrorResult("Error: A valid source name must be provided."), nil
	}

	entity, errResult := resolveMediaPlayer(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	payload := map[string]any{"entity_id": entity.EntityID, "source": sourceName}
	if errResult := callService(ctx, session, "media_player", "select_source", payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully changed the source for %s to %s.", deviceName, sourceName)), nil
}

func (h *MediaHandlers) handleControlMediaPlayback(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}
	action, ok := stringArg(args, "action")
	if !ok {
		return missingArg("action"), nil
	}

	entity, errResult := resolveMediaPlayer(ctx, session, deviceName)
	if errResult != nil {
		return errResult, nil
	}

	action = strings.ToLower(action)
	payload := map[string]any{"entity_id": entity.EntityID}
	var service string

	simpleServiceMap := map[string]string{
		"play":        "media_play",
		"pause":       "media_pause",
		"stop":        "media_stop",
		"volume_up":   "volume_up",
		"volume_down": "volume_down",
	}

	switch {
	case simpleServiceMap[action] != "":
		service = simpleServiceMap[action]
	case action == "set_volume":
		volume, ok := optionalIntArg(args, "volume_percent")
		if !ok || volume < 0 || volume > 100 {
			return mcp.NewErrorResult("Error: To set volume, please provide a volume percentage between 0 and 100."), nil
		}
		service = "volume_set"
		payload["volume_level"] = float64(volume) / 100.0
	case action == "mute" || action == "unmute":
		service = "volume_mute"
		payload["is_volume_muted"] = action == "mute"
	default:
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid action '%s'. Valid actions are: play, pause, stop, volume_up, volume_down, mute, unmute, set_volume.", action)), nil
	}

	if errResult := callService(ctx, session, "media_player", service, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully performed action '%s' on %s.", action, deviceName)), nil
}
