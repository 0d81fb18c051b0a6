package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

const (
	defaultErrorLogLimit = 5
	maxErrorLogLimit     = 20
)

// DiagnosticsHandlers provides error log and notification tools.
type DiagnosticsHandlers struct{}

// NewDiagnosticsHandlers creates a new DiagnosticsHandlers instance.
func NewDiagnosticsHandlers() *DiagnosticsHandlers {
	return &DiagnosticsHandlers{}
}

// RegisterTools registers all diagnostics tools with the registry.
func (h *DiagnosticsHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getErrorLogsTool(), h.handleGetErrorLogs)
	registry.RegisterTool(h.getPersistentNotificationsTool(), h.handleGetPersistentNotifications)
}

func (h *DiagnosticsHandlers) getErrorLogsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_error_logs",
		Description: "Retrieves the most recent error logs from Home Assistant.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"limit": {
					Type:        "integer",
					Description: "The maximum number of log entries to retrieve. Defaults to 5.",
					Default:     defaultErrorLogLimit,
					Minimum:     f64(1),
					Maximum:     f64(maxErrorLogLimit),
				},
			},
		},
	}
}

func (h *DiagnosticsHandlers) getPersistentNotificationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_persistent_notifications",
		Description: "Retrieves all active persistent notifications from Home Assistant.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
		},
	}
}

func (h *DiagnosticsHandlers) handleGetErrorLogs(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	limit := defaultErrorLogLimit
	if v, ok := optionalIntArg(args, "limit"); ok {
		limit = v
	}
	if limit < 1 || limit > maxErrorLogLimit {
		return mcp.NewErrorResult("Error: Limit must be between 1 and 20."), nil
	}

	logs, err := session.ErrorLog(ctx)
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}

	if len(logs) == 0 {
		return mcp.NewTextResult("No error logs found in Home Assistant."), nil
	}

	// Logs are newest first, so the first entries are the most recent.
	lines := []string{"Recent Home Assistant Error Logs:"}
	for i, entry := range logs {
		if i >= limit {
			break
		}
		timestamp := entry.TimestampPretty
		if timestamp == "" {
			timestamp = "No timestamp"
		}
		message := entry.MessageText()
		if message == "" {
			message = "No message"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", timestamp, message))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *DiagnosticsHandlers) handleGetPersistentNotifications(ctx context.Context, session homeassistant.Session, _ map[string]any) (*mcp.ToolsCallResult, error) {
	entities, err := session.Entities(ctx, "persistent_notification")
	if err != nil {
		return mcp.NewErrorResult(errorText(err)), nil
	}

	var notifications []string
	for _, e := range entities {
		title := e.StringAttr("friendly_name")
		if title == "" {
			title = "Notification"
		}
		notifications = append(notifications, fmt.Sprintf("%s: %s", title, e.State))
	}

	if len(notifications) == 0 {
		return mcp.NewTextResult("There are no active notifications in Home Assistant."), nil
	}
	return mcp.NewTextResult(fmt.Sprintf("The following notifications are active:\n- %s", strings.Join(notifications, "\n- "))), nil
}
