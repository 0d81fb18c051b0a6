package tools

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
)

func climateTestSession() *fakeSession {
	return &fakeSession{entities: []homeassistant.Entity{
		entity("climate.living_room", "heat", "Living Room Thermostat", map[string]any{
			"current_temperature": 19.5,
			"temperature":         21.0,
			"temperature_unit":    "°C",
			"hvac_action":         "heating",
		}),
		entity("switch.fan", "off", "Bedroom Fan", nil),
	}}
}

func TestGetThermostatStatus(t *testing.T) {
	t.Parallel()

	session := climateTestSession()
	h := NewClimateHandlers()

	result, err := h.handleGetThermostatStatus(context.Background(), session, map[string]any{
		"device_name": "Living Room Thermostat",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := "Status for Living Room Thermostat (heat):\n" +
		"- Current Temperature: 19.5°C\n" +
		"- Target Temperature: 21°C\n" +
		"- Action: Heating"
	if got := resultText(t, result); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestGetThermostatStatus_NotAThermostat(t *testing.T) {
	t.Parallel()

	session := climateTestSession()
	h := NewClimateHandlers()

	result, err := h.handleGetThermostatStatus(context.Background(), session, map[string]any{
		"device_name": "Bedroom Fan",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	want := "Error: The device 'Bedroom Fan' is not a thermostat."
	if got := resultText(t, result); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestSetThermostatAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        map[string]any
		wantText    string
		wantIsError bool
		wantCalls   []serviceCall
	}{
		{
			name: "mode and temperature",
			args: map[string]any{
				"device_name": "Living Room Thermostat",
				"hvac_mode":   "heat",
				"temperature": float64(22),
			},
			wantText: "Successfully processed actions for Living Room Thermostat: set mode to heat, set temperature to 22.",
			wantCalls: []serviceCall{
				{Domain: "climate", Service: "set_hvac_mode", Data: map[string]any{"entity_id": "climate.living_room", "hvac_mode": "heat"}},
				{Domain: "climate", Service: "set_temperature", Data: map[string]any{"entity_id": "climate.living_room", "temperature": float64(22)}},
			},
		},
		{
			name: "temperature only",
			args: map[string]any{
				"device_name": "Living Room Thermostat",
				"temperature": 20.5,
			},
			wantText: "Successfully processed actions for Living Room Thermostat: set temperature to 20.5.",
			wantCalls: []serviceCall{
				{Domain: "climate", Service: "set_temperature", Data: map[string]any{"entity_id": "climate.living_room", "temperature": 20.5}},
			},
		},
		{
			name: "invalid HVAC mode",
			args: map[string]any{
				"device_name": "Living Room Thermostat",
				"hvac_mode":   "turbo",
			},
			wantText:    "Error: Invalid HVAC mode 'turbo'. Valid modes are: heat, cool, off, heat_cool, auto, dry, fan_only.",
			wantIsError: true,
		},
		{
			name:     "no action",
			args:     map[string]any{"device_name": "Living Room Thermostat"},
			wantText: "No action taken. Please specify a temperature or HVAC mode to set.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := climateTestSession()
			h := NewClimateHandlers()

			result, err := h.handleSetThermostatAttributes(context.Background(), session, tt.args)
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if result.IsError != tt.wantIsError {
				t.Errorf("IsError = %t, want %t", result.IsError, tt.wantIsError)
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if tt.wantCalls != nil {
				if diff := cmp.Diff(tt.wantCalls, session.calls); diff != "" {
					t.Errorf("service calls mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
