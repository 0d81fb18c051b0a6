package tools

import "strings"

// domainAliases maps plural, singular, and common aliases to Home Assistant
// domains. NAS devices have no domain of their own and are represented by
// multiple sensors.
var domainAliases = map[string]string{
	"scenes":          "scene",
	"scene":           "scene",
	"automations":     "automation",
	"automation":      "automation",
	"lights":          "light",
	"light":           "light",
	"switches":        "switch",
	"switch":          "switch",
	"sensors":         "sensor",
	"sensor":          "sensor",
	"binary_sensors":  "binary_sensor",
	"binary_sensor":   "binary_sensor",
	"thermostats":     "climate",
	"thermostat":      "climate",
	"media_players":   "media_player",
	"media_player":    "media_player",
	"tvs":             "media_player",
	"cameras":         "camera",
	"camera":          "camera",
	"covers":          "cover",
	"cover":           "cover",
	"blinds":          "cover",
	"curtains":        "cover",
	"garage_doors":    "cover",
	"person":          "person",
	"people":          "person",
	"device_trackers": "device_tracker",
	"device_tracker":  "device_tracker",
	"vacuums":         "vacuum",
	"vacuum":          "vacuum",
	"alarms":          "alarm_control_panel",
	"alarm":           "alarm_control_panel",
	"nas":             "sensor",
	"network_storage": "sensor",
	"todo":            "todo",
	"to-do":           "todo",
	"todo_lists":      "todo",
	"locks":           "lock",
	"lock":            "lock",
	"weather":         "weather",
}

// CanonicalDomain resolves an entity type alias to its Home Assistant domain.
// Returns "" when the alias is unknown.
func CanonicalDomain(entityType string) string {
	return domainAliases[strings.ToLower(entityType)]
}
