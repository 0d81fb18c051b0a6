package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// binarySensorOnStates maps device classes to a readable "on" description.
var binarySensorOnStates = map[string]string{
	"door":            "open",
	"window":          "open",
	"motion":          "detecting motion",
	"moisture":        "wet",
	"smoke":           "detecting smoke",
	"gas":             "detecting gas",
	"carbon_monoxide": "detecting carbon monoxide",
	"opening":         "open",
	"garage_door":     "open",
	"safety":          "unsafe",
	"lock":            "unlocked",
}

// binarySensorOffStates maps device classes to a readable "off" description.
var binarySensorOffStates = map[string]string{
	"door":            "closed",
	"window":          "closed",
	"motion":          "clear",
	"moisture":        "dry",
	"smoke":           "clear",
	"gas":             "clear",
	"carbon_monoxide": "clear",
	"opening":         "closed",
	"garage_door":     "closed",
	"safety":          "safe",
	"lock":            "locked",
}

// SensorHandlers provides sensor readout tools, including the aggregated
// internet connection and NAS status tools built on sensor scans.
type SensorHandlers struct{}

// NewSensorHandlers creates a new SensorHandlers instance.
func NewSensorHandlers() *SensorHandlers {
	return &SensorHandlers{}
}

// RegisterTools registers all sensor tools with the registry.
func (h *SensorHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getBinarySensorStatusTool(), h.handleGetBinarySensorStatus)
	registry.RegisterTool(h.getSensorStatusTool(), h.handleGetSensorStatus)
	registry.RegisterTool(h.getInternetConnectionStatusTool(), h.handleGetInternetConnectionStatus)
	registry.RegisterTool(h.getNASStatusTool(), h.handleGetNASStatus)
}

func (h *SensorHandlers) getBinarySensorStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_binary_sensor_status",
		Description: "Gets the current status of a binary sensor (e.g., door, window, motion sensor).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the binary sensor.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *SensorHandlers) getSensorStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_sensor_status",
		Description: "Gets the current value of a generic sensor (e.g., temperature, humidity, pressure).",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the sensor.",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *SensorHandlers) getInternetConnectionStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_internet_connection_status",
		Description: "Gets the status of the internet connection by looking for Speedtest.net sensors.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
		},
	}
}

func (h *SensorHandlers) getNASStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_nas_status",
		Description: "Gets the status of a Network Attached Storage (NAS) device by looking for its sensors. This is primarily designed for the Synology DSM integration.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the NAS (e.g., \"Synology\" or \"MyNAS\").",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *SensorHandlers) handleGetBinarySensorStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "binary_sensor" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a binary sensor.", deviceName)), nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve binary sensor status for '%s'.", deviceName)), nil
	}

	// Render the raw on/off state per the sensor's device class.
	statusText := state.State
	if deviceClass := state.StringAttr("device_class"); deviceClass != "" {
		switch state.State {
		case "on":
			if text, ok := binarySensorOnStates[deviceClass]; ok {
				statusText = text
			}
		case "off":
			if text, ok := binarySensorOffStates[deviceClass]; ok {
				statusText = text
			}
		}
	}
	return mcp.NewTextResult(fmt.Sprintf("The %s is currently %s.", state.FriendlyName(), statusText)), nil
}

func (h *SensorHandlers) handleGetSensorStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a device")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "sensor" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The device '%s' is not a generic sensor. Use get_binary_sensor_status for on/off sensors.", deviceName)), nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve sensor status for '%s'.", deviceName)), nil
	}

	name := state.FriendlyName()
	if unit := state.StringAttr("unit_of_measurement"); unit != "" {
		return mcp.NewTextResult(fmt.Sprintf("The %s is currently %s %s.", name, state.State, unit)), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("The %s is currently %s.", name, state.State)), nil
}

func (h *SensorHandlers) handleGetInternetConnectionStatus(ctx context.Context, session homeassistant.Session, _ map[string]any) (*mcp.ToolsCallResult, error) {
	sensors, err := session.Entities(ctx, "sensor")
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}

	stats := map[string]string{}
	for _, e := range sensors {
		if !strings.Contains(e.EntityID, "speedtest") {
			continue
		}
		value := strings.TrimSpace(e.State + " " + e.StringAttr("unit_of_measurement"))
		switch {
		case strings.Contains(e.EntityID, "ping"):
			stats["Ping"] = value
		case strings.Contains(e.EntityID, "download"):
			stats["Download"] = value
		case strings.Contains(e.EntityID, "upload"):
			stats["Upload"] = value
		}
	}

	if len(stats) == 0 {
		return mcp.NewTextResult("Could not find any Speedtest.net sensors. Please ensure the Speedtest.net integration is configured in Home Assistant to use this feature."), nil
	}

	lines := []string{"Internet Connection Status:"}
	if v, ok := stats["Ping"]; ok {
		lines = append(lines, fmt.Sprintf("- Ping: %s", v))
	}
	if v, ok := stats["Download"]; ok {
		lines = append(lines, fmt.Sprintf("- Download Speed: %s", v))
	}
	if v, ok := stats["Upload"]; ok {
		lines = append(lines, fmt.Sprintf("- Upload Speed: %s", v))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *SensorHandlers) handleGetNASStatus(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	sensors, err := session.Entities(ctx, "sensor")
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}

	// Find all sensors whose friendly names mention the NAS device name.
	wanted := strings.ToLower(deviceName)
	var relevant []homeassistant.Entity
	for _, e := range sensors {
		if strings.Contains(strings.ToLower(e.StringAttr("friendly_name")), wanted) {
			relevant = append(relevant, e)
		}
	}

	if len(relevant) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("Could not find any sensors related to '%s'. Please ensure the Synology DSM or a similar integration is configured.", deviceName)), nil
	}

	stats := map[string]string{}
	for _, e := range relevant {
		friendlyName := strings.ToLower(e.StringAttr("friendly_name"))
		value := strings.TrimSpace(e.State + " " + e.StringAttr("unit_of_measurement"))

		switch {
		case strings.Contains(friendlyName, "volume_used"):
			stats["Volume Usage"] = value
		case strings.Contains(friendlyName, "cpu_load") && strings.Contains(friendlyName, "total"):
			stats["CPU Load"] = value
		case strings.Contains(friendlyName, "memory_usage"):
			stats["Memory Usage"] = value
		case strings.Contains(friendlyName, "status") && !strings.Contains(friendlyName, "volume"):
			stats["Security Status"] = capitalize(e.State)
		case strings.Contains(friendlyName, "temperature"):
			stats["Temperature"] = value
		}
	}

	lines := []string{fmt.Sprintf("Status for %s:", deviceName)}
	for _, key := range []string{"Volume Usage", "CPU Load", "Memory Usage", "Security Status", "Temperature"} {
		if v, ok := stats[key]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", key, v))
		}
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}
