package tools

import "gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"

// RegisterDeviceTools registers the generic device control and listing tools.
func RegisterDeviceTools(registry *mcp.Registry) {
	h := NewDeviceHandlers()
	h.RegisterTools(registry)
}

// RegisterLightTools registers the advanced light control tools.
func RegisterLightTools(registry *mcp.Registry) {
	h := NewLightHandlers()
	h.RegisterTools(registry)
}

// RegisterAutomationTools registers the automation control tools.
func RegisterAutomationTools(registry *mcp.Registry) {
	h := NewAutomationHandlers()
	h.RegisterTools(registry)
}

// RegisterSceneTools registers the scene activation tools.
func RegisterSceneTools(registry *mcp.Registry) {
	h := NewSceneHandlers()
	h.RegisterTools(registry)
}

// RegisterWeatherTools registers the weather forecast tools.
func RegisterWeatherTools(registry *mcp.Registry) {
	h := NewWeatherHandlers()
	h.RegisterTools(registry)
}

// RegisterClimateTools registers the thermostat status and control tools.
func RegisterClimateTools(registry *mcp.Registry) {
	h := NewClimateHandlers()
	h.RegisterTools(registry)
}

// RegisterMediaTools registers the media player tools.
func RegisterMediaTools(registry *mcp.Registry) {
	h := NewMediaHandlers()
	h.RegisterTools(registry)
}

// RegisterTrackerTools registers the person and device tracker tools.
func RegisterTrackerTools(registry *mcp.Registry) {
	h := NewTrackerHandlers()
	h.RegisterTools(registry)
}

// RegisterLockTools registers the lock status and control tools.
func RegisterLockTools(registry *mcp.Registry) {
	h := NewLockHandlers()
	h.RegisterTools(registry)
}

// RegisterSensorTools registers the sensor readout tools.
func RegisterSensorTools(registry *mcp.Registry) {
	h := NewSensorHandlers()
	h.RegisterTools(registry)
}

// RegisterVacuumTools registers the robot vacuum tools.
func RegisterVacuumTools(registry *mcp.Registry) {
	h := NewVacuumHandlers()
	h.RegisterTools(registry)
}

// RegisterAlarmTools registers the alarm control panel tools.
func RegisterAlarmTools(registry *mcp.Registry) {
	h := NewAlarmHandlers()
	h.RegisterTools(registry)
}

// RegisterCoverTools registers the cover control tools.
func RegisterCoverTools(registry *mcp.Registry) {
	h := NewCoverHandlers()
	h.RegisterTools(registry)
}

// RegisterTodoTools registers the to-do list tools.
func RegisterTodoTools(registry *mcp.Registry) {
	h := NewTodoHandlers()
	h.RegisterTools(registry)
}

// RegisterPrinterTools registers the printer tools.
func RegisterPrinterTools(registry *mcp.Registry) {
	h := NewPrinterHandlers()
	h.RegisterTools(registry)
}

// RegisterDiagnosticsTools registers the error log and notification tools.
func RegisterDiagnosticsTools(registry *mcp.Registry) {
	h := NewDiagnosticsHandlers()
	h.RegisterTools(registry)
}

// RegisterAllTools registers every tool handler with the registry.
func RegisterAllTools(registry *mcp.Registry) {
	// Generic device control and discovery
	RegisterDeviceTools(registry)
	RegisterLightTools(registry)
	RegisterAutomationTools(registry)
	RegisterSceneTools(registry)

	// Domain-specific status and control
	RegisterClimateTools(registry)
	RegisterMediaTools(registry)
	RegisterLockTools(registry)
	RegisterCoverTools(registry)
	RegisterVacuumTools(registry)
	RegisterAlarmTools(registry)

	// Sensors, tracking, and lists
	RegisterSensorTools(registry)
	RegisterTrackerTools(registry)
	RegisterWeatherTools(registry)
	RegisterTodoTools(registry)

	// Output and diagnostics
	RegisterPrinterTools(registry)
	RegisterDiagnosticsTools(registry)
}
