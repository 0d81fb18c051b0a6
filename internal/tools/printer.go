package tools

import (
	"context"
	"fmt"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// PrinterHandlers provides the printer tool backed by a configured notify
// service.
type PrinterHandlers struct{}

// NewPrinterHandlers creates a new PrinterHandlers instance.
func NewPrinterHandlers() *PrinterHandlers {
	return &PrinterHandlers{}
}

// RegisterTools registers all printer tools with the registry.
func (h *PrinterHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.sendToPrinterTool(), h.handleSendToPrinter)
}

func (h *PrinterHandlers) sendToPrinterTool() mcp.Tool {
	return mcp.Tool{
		Name:        "send_to_printer",
		Description: "Sends text content to a configured printer in Home Assistant via a notify service. The LLM should pass the relevant chat history as the 'text_to_print' argument.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"text_to_print": {
					Type:        "string",
					Description: "The text content to be printed.",
				},
			},
			Required: []string{"text_to_print"},
		},
	}
}

func (h *PrinterHandlers) handleSendToPrinter(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	printerService := session.PrinterNotifyService()
	if printerService == "" {
		return mcp.NewErrorResult("Error: The printer notify service has not been configured in the tool settings. Please set it up first."), nil
	}

	text, ok := stringArg(args, "text_to_print")
	if !ok {
		return mcp.NewErrorResult("Error: No text was provided to print."), nil
	}

	payload := map[string]any{"message": text}
	if errResult := callService(ctx, session, "notify", printerService, payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully sent the text to the printer service '%s'.", printerService)), nil
}
