package tools

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// TodoHandlers provides to-do list query and mutation tools.
type TodoHandlers struct{}

// NewTodoHandlers creates a new TodoHandlers instance.
func NewTodoHandlers() *TodoHandlers {
	return &TodoHandlers{}
}

// RegisterTools registers all to-do list tools with the registry.
func (h *TodoHandlers) RegisterTools(registry *mcp.Registry) {
	registry.RegisterTool(h.getTodoListItemsTool(), h.handleGetTodoListItems)
	registry.RegisterTool(h.addTodoListItemTool(), h.handleAddTodoListItem)
	registry.RegisterTool(h.updateTodoListItemTool(), h.handleUpdateTodoListItem)
}

func (h *TodoHandlers) getTodoListItemsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_todo_list_items",
		Description: "Gets all items from a specified to-do list.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"list_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the to-do list (e.g., \"Shopping List\").",
				},
			},
			Required: []string{"list_name"},
		},
	}
}

func (h *TodoHandlers) addTodoListItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_todo_list_item",
		Description: "Adds a new item to a to-do list.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"list_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the to-do list.",
				},
				"item": {
					Type:        "string",
					Description: "The summary of the item to add.",
				},
			},
			Required: []string{"list_name", "item"},
		},
	}
}

func (h *TodoHandlers) updateTodoListItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_todo_list_item",
		Description: "Updates an item on a to-do list, for example, to mark it as complete.",
		InputSchema: mcp.JSONSchema{
			Type: "object",
			Properties: map[string]mcp.JSONSchema{
				"list_name": {
					Type:        "string",
					Description: "The friendly, human-readable name of the to-do list.",
				},
				"item": {
					Type:        "string",
					Description: "The exact summary of the item to update.",
				},
				"status": {
					Type:        "string",
					Description: "The new status for the item. Must be \"complete\" or \"incomplete\".",
					Enum:        []string{"complete", "incomplete"},
				},
			},
			Required: []string{"list_name", "item", "status"},
		},
	}
}

// resolveTodoList resolves a list name and checks it is a to-do list.
func resolveTodoList(ctx context.Context, session homeassistant.Session, listName string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, errResult := resolveDevice(ctx, session, listName, "a to-do list")
	if errResult != nil {
		return nil, errResult
	}
	if entity.Domain() != "todo" {
		return nil, mcp.NewErrorResult(fmt.Sprintf("Error: The entity '%s' is not a to-do list.", listName))
	}
	return entity, nil
}

func (h *TodoHandlers) handleGetTodoListItems(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	listName, ok := stringArg(args, "list_name")
	if !ok {
		return missingArg("list_name"), nil
	}

	entity, errResult := resolveTodoList(ctx, session, listName)
	if errResult != nil {
		return errResult, nil
	}

	state, err := session.GetState(ctx, entity.EntityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Could not retrieve to-do list items for '%s'.", listName)), nil
	}

	items := state.ListAttr("items")
	if items == nil {
		return mcp.NewTextResult(fmt.Sprintf("The to-do list '%s' does not appear to have any items.", listName)), nil
	}
	if len(items) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("The to-do list '%s' is empty.", listName)), nil
	}

	lines := []string{fmt.Sprintf("Items on the '%s' list:", listName)}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		summary := "No summary"
		if s, ok := entry["summary"].(string); ok && s != "" {
			summary = s
		}
		prefix := "[ ]"
		if status, ok := entry["status"].(string); ok && status == "completed" {
			prefix = "[x]"
		}
		lines = append(lines, fmt.Sprintf("- %s %s", prefix, summary))
	}
	return mcp.NewTextResult(strings.Join(lines, "\n")), nil
}

func (h *TodoHandlers) handleAddTodoListItem(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	listName, ok := stringArg(args, "list_name")
	if !ok {
		return missingArg("list_name"), nil
	}
	item, ok := stringArg(args, "item")
	if !ok {
		return mcp.NewErrorResult("Error: A valid item description must be provided."), nil
	}

	entity, errResult := resolveTodoList(ctx, session, listName)
	if errResult != nil {
		return errResult, nil
	}

	payload := map[string]any{"entity_id": entity.EntityID, "item": item}
	if errResult := callService(ctx, session, "todo", "add_item", payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully added '%s' to the '%s' list.", item, listName)), nil
}

func (h *TodoHandlers) handleUpdateTodoListItem(ctx context.Context, session homeassistant.Session, args map[string]any) (*mcp.ToolsCallResult, error) {
	listName, ok := stringArg(args, "list_name")
	if !ok {
		return missingArg("list_name"), nil
	}
	item, ok := stringArg(args, "item")
	if !ok {
		return missingArg("item"), nil
	}
	status, ok := stringArg(args, "status")
	if !ok {
		return missingArg("status"), nil
	}

	entity, errResult := resolveTodoList(ctx, session, listName)
	if errResult != nil {
		return errResult, nil
	}

	status = strings.ToLower(status)
	statusMap := map[string]string{"complete": "completed", "incomplete": "needs_action"}
	haStatus, ok := statusMap[status]
	if !ok {
		return mcp.NewErrorResult(fmt.Sprintf("Error: Invalid status '%s'. Must be 'complete' or 'incomplete'.", status)), nil
	}

	payload := map[string]any{"entity_id": entity.EntityID, "item": item, "status": haStatus}
	if errResult := callService(ctx, session, "todo", "update_item", payload); errResult != nil {
		return errResult, nil
	}
	return mcp.NewTextResult(fmt.Sprintf("Successfully marked '%s' as %s on the '%s' list.", item, status, listName)), nil
}
