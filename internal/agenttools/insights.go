package agenttools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/stats"
	"github.com/daylog-app/daylog/internal/streak"
)

// StreakTool handles the get_streak MCP tool.
type StreakTool struct {
	engine *streak.Engine
	owner  string
}

// NewStreakTool creates a StreakTool.
func NewStreakTool(engine *streak.Engine, owner string) *StreakTool {
	return &StreakTool{engine: engine, owner: owner}
}

// Definition returns the MCP tool definition for get_streak.
func (t *StreakTool) Definition() mcp.Tool {
	return mcp.NewTool("get_streak",
		mcp.WithDescription("Show the completion streak: current and longest run of fully completed days."),
	)
}

// Handle processes the get_streak tool call.
func (t *StreakTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.engine.Current(ctx, t.owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load streak: %v", err)), nil
	}
	return jsonResult(st)
}

// StatsTool handles the get_stats MCP tool.
type StatsTool struct {
	reporter *stats.Reporter
	owner    string
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(reporter *stats.Reporter, owner string) *StatsTool {
	return &StatsTool{reporter: reporter, owner: owner}
}

// Definition returns the MCP tool definition for get_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_stats",
		mcp.WithDescription("Show counts of todos, notes, folders and chats along with streak figures."),
	)
}

// Handle processes the get_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := t.reporter.Report(ctx, t.owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build stats: %v", err)), nil
	}
	return mcp.NewToolResultText(stats.Format(rep)), nil
}
