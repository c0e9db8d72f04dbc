package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/devlog/pkg/logs"
)

// splitTags parses a comma-separated tag list.
func splitTags(tagsStr string) []string {
	if strings.TrimSpace(tagsStr) == "" {
		return nil
	}
	return logs.NormalizeTags(strings.Split(tagsStr, ","))
}

// intArgument reads an optional whole-number argument. JSON numbers arrive as float64.
func intArgument(args map[string]any, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) {
		return 0, fmt.Errorf("'%s' must be a whole number", name)
	}
	return int(v), nil
}

// jsonResult serializes v as the tool's text result.
func jsonResult(v any, what string) *mcp.CallToolResult {
	jsonResult, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err))
	}
	return mcp.NewToolResultText(string(jsonResult))
}
