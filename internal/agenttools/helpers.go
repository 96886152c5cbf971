// Package agenttools exposes the agent operation catalogue as MCP tools.
//
// Each tool follows the same shape:
//   - a struct holding the executor and the acting owner, built by a constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() turns arguments into an ops.Command and renders the Result
//
// A failed Result becomes an MCP tool error, so the agent sees the message
// as data and the server never returns a protocol error for it.
package agenttools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/ops"
)

// base is embedded by every catalogue tool.
type base struct {
	exec  *ops.Executor
	owner string
}

// run executes cmd and renders the Result as JSON text.
func (b base) run(ctx context.Context, cmd ops.Command) (*mcp.CallToolResult, error) {
	res := b.exec.Execute(ctx, b.owner, cmd)
	if !res.Success {
		return mcp.NewToolResultError(res.Error), nil
	}
	return jsonResult(res)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optBool returns nil when key is absent, so "not supplied" stays distinct
// from false.
func optBool(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// optString returns nil when key is absent or not a string.
func optString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// optDate returns nil when key is absent or empty.
func optDate(req mcp.CallToolRequest, key string) *model.Date {
	s := req.GetString(key, "")
	if s == "" {
		return nil
	}
	d := model.Date(s)
	return &d
}

// stringSlice extracts an array of strings. Non-string elements are
// dropped. JSON arrays arrive as []any.
func stringSlice(req mcp.CallToolRequest, key string) []string {
	switch v := req.GetArguments()[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
