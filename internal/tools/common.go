// Package tools implements the device-control tool surface exposed to LLM
// hosts over MCP. Tool names, parameters, and descriptions are the inbound
// contract for the model and must stay stable across releases.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// stringArg extracts a required string argument. The second return value is
// false when the argument is absent, empty, or not a string.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// optionalStringArg extracts an optional string argument ("" when absent).
func optionalStringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// optionalIntArg extracts an optional integer argument. JSON numbers arrive
// as float64 after unmarshaling.
func optionalIntArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// optionalFloatArg extracts an optional numeric argument.
func optionalFloatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// missingArg builds the error result for a missing required argument.
func missingArg(key string) *mcp.ToolsCallResult {
	return mcp.NewErrorResult(fmt.Sprintf("Error: The '%s' argument is required.", key))
}

// f64 returns a pointer to a float64, for JSON schema bounds.
func f64(v float64) *float64 {
	return &v
}

// errorText maps client errors to conversational messages for the model.
func errorText(err error) string {
	var (
		ambiguous *homeassistant.AmbiguousEntityError
		notFound  *homeassistant.EntityNotFoundError
		auth      *homeassistant.AuthError
		timeout   *homeassistant.TimeoutError
		conn      *homeassistant.ConnectivityError
		upstream  *homeassistant.UpstreamError
	)
	switch {
	case errors.As(err, &ambiguous):
		return fmt.Sprintf("Error: The name '%s' matches multiple devices: %s. Please use a more specific name.",
			ambiguous.Query, strings.Join(ambiguous.Candidates, ", "))
	case errors.As(err, &notFound):
		return fmt.Sprintf("Error: Could not find a device named '%s'.", notFound.Query)
	case errors.As(err, &auth):
		return "Error: Authentication failed. Please check your HA_API_KEY."
	case errors.As(err, &timeout):
		return "Error: The request to Home Assistant timed out."
	case errors.As(err, &conn):
		return "Error: Could not connect to Home Assistant. Please check the URL and network connectivity."
	case errors.As(err, &upstream):
		return fmt.Sprintf("Error: Home Assistant returned an unexpected response (status %d).", upstream.StatusCode)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// resolveDevice resolves a friendly name or entity ID across all domains.
// The noun ("a device", "an automation", ...) is used in the not-found
// message. The result is non-nil when resolution failed.
func resolveDevice(ctx context.Context, session homeassistant.Session, query, noun string) (*homeassistant.Entity, *mcp.ToolsCallResult) {
	entity, err := session.ResolveByName(ctx, "", query)
	if err != nil {
		var notFound *homeassistant.EntityNotFoundError
		if errors.As(err, &notFound) {
			return nil, mcp.NewErrorResult(fmt.Sprintf("Error: Could not find %s named '%s'.", noun, query))
		}
		return nil, mcp.NewErrorResult(errorText(err))
	}
	return entity, nil
}

// callService invokes a service and maps a failure to a conversational error
// result. The result is nil on success.
func callService(ctx context.Context, session homeassistant.Session, domain, service string, data map[string]any) *mcp.ToolsCallResult {
	if err := session.CallService(ctx, domain, service, data); err != nil {
		return mcp.NewErrorResult(errorText(err))
	}
	return nil
}

// capitalize upper-cases the first letter of a string.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// humanize replaces underscores with spaces and capitalizes the result, so
// "armed_away" reads as "Armed away".
func humanize(s string) string {
	return capitalize(strings.ReplaceAll(s, "_", " "))
}
