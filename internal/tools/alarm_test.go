package tools

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
)

func alarmTestSession() *fakeSession {
	return &fakeSession{
		entities: []homeassistant.Entity{
			entity("alarm_control_panel.home", "armed_away", "Home Alarm", nil),
			entity("light.office", "off", "Office Light", nil),
		},
		alarmCode: "1234",
	}
}

func TestGetAlarmStatus(t *testing.T) {
	t.Parallel()

	session := alarmTestSession()
	h := NewAlarmHandlers()

	result, err := h.handleGetAlarmStatus(context.Background(), session, map[string]any{
		"device_name": "Home Alarm",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	want := "The Home Alarm is currently Armed away."
	if got := resultText(t, result); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestControlAlarm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        map[string]any
		wantText    string
		wantIsError bool
		wantCall    *serviceCall
	}{
		{
			name:     "arm home includes the configured code",
			args:     map[string]any{"device_name": "Home Alarm", "state": "arm_home"},
			wantText: "Successfully processed action 'arm home' for Home Alarm.",
			wantCall: &serviceCall{
				Domain:  "alarm_control_panel",
				Service: "alarm_arm_home",
				Data:    map[string]any{"entity_id": "alarm_control_panel.home", "code": "1234"},
			},
		},
		{
			name:     "disarm",
			args:     map[string]any{"device_name": "Home Alarm", "state": "disarm"},
			wantText: "Successfully processed action 'disarm' for Home Alarm.",
			wantCall: &serviceCall{
				Domain:  "alarm_control_panel",
				Service: "alarm_disarm",
				Data:    map[string]any{"entity_id": "alarm_control_panel.home", "code": "1234"},
			},
		},
		{
			name:        "invalid state",
			args:        map[string]any{"device_name": "Home Alarm", "state": "panic"},
			wantText:    "Error: Invalid state 'panic'. Must be one of: arm_home, arm_away, arm_night, disarm.",
			wantIsError: true,
		},
		{
			name:        "not an alarm panel",
			args:        map[string]any{"device_name": "Office Light", "state": "disarm"},
			wantText:    "Error: The device 'Office Light' is not an alarm control panel.",
			wantIsError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := alarmTestSession()
			h := NewAlarmHandlers()

			result, err := h.handleControlAlarm(context.Background(), session, tt.args)
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if result.IsError != tt.wantIsError {
				t.Errorf("IsError = %t, want %t", result.IsError, tt.wantIsError)
			}
			if got := resultText(t, result); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if tt.wantCall != nil {
				if diff := cmp.Diff(*tt.wantCall, session.lastCall()); diff != "" {
					t.Errorf("service call mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestControlAlarm_NoCodeConfigured(t *testing.T) {
	t.Parallel()

	session := alarmTestSession()
	session.alarmCode = ""
	h := NewAlarmHandlers()

	if _, err := h.handleControlAlarm(context.Background(), session, map[string]any{
		"device_name": "Home Alarm", "state": "arm_away",
	}); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	call := session.lastCall()
	if _, hasCode := call.Data["code"]; hasCode {
		t.Error("payload carries a code although none is configured")
	}
	if call.Service != "alarm_arm_away" {
		t.Errorf("service = %q, want alarm_arm_away", call.Service)
	}
}
