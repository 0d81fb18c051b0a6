package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// forecastDays limits the forecast output for brevity.
const forecastDays = 3

// WeatherHandlers provides the weather forecast tool.
type WeatherHandlers struct{}

// NewWeatherHandlers creates a new WeatherHandlers instance.
func NewWeatherHandlers() *WeatherHandlers {
	return &WeatherHandlers{}
}

// RegisterTools registers all weather tools with the registry.
func (h *WeatherHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getWeatherForecastTool(), h.handleGetWeatherForecast)
}

func (h *WeatherHandlers) getWeatherForecastTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_weather_forecast",
		Description: "Gets the weather forecast from a specified weather entity.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"device_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the weather entity (e.g., \"Home Weather\").",
				},
			},
			Required: []string{"device_name"},
		},
	}
}

func (h *WeatherHandlers) handleGetWeatherForecast(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	deviceName, ok := stringArg(args, "device_name")
	if !ok {
		return missingArg("device_name"), nil
	}

	entity, errResult := resolveDevice(ctx, session, deviceName, "a weather entity")
	if errResult != nil {
		return errResult, nil
	}

	if entity.Domain() != "weather" {
		return mcp.NewErrorResult(fmt.Sprintf("Error: The entity '%s' is not a weather entity.", deviceName)), nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve weather forecast for '%s'.", deviceName)), nil
	}

	forecasts := state.ListAttr("forecast")
	if len(forecasts) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("The weather entity '%s' does not have forecast data available.", deviceName)), nil
	}

	tempUnit := state.StringAttr("temperature_unit")
	if tempUnit == "" {
		tempUnit = "°"
	}

	lines := []string{fmt.Sprintf("Weather forecast for %s:", deviceName)}
	for i, f := range forecasts {
		if i >= forecastDays {
			break
		}
		entry, ok := f.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, formatForecastLine(entry, tempUnit))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

// formatForecastLine renders one forecast entry as a bullet line.
func formatForecastLine(entry map[string]any, tempUnit string) string {
	day := "Unknown"
	if dt, ok := entry["datetime"].(string); ok {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			day = t.Weekday().String()
		} else {
			day = dt
		}
	}

	condition := "unknown"
	if c, ok := entry["condition"].(string); ok && c != "" {
		condition = c
	}

	precipitation := any(0)
	if p, ok := entry["precipitation_probability"]; ok {
		precipitation = p
	}

	return fmt.Sprintf("- %s: %s, High: %v%s, Low: %v%s, Precipitation: %v%%",
		day, capitalize(condition), entry["temperature"], tempUnit, entry["templow"], tempUnit, precipitation)
}
