// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (daylog://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/stats"
	"github.com/daylog-app/daylog/internal/streak"
)

const (
	StreakURI = "daylog://streak"
	StatsURI  = "daylog://stats"
)

// Handler serves the owner's read-only resources.
type Handler struct {
	engine   *streak.Engine
	reporter *stats.Reporter
	owner    string
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(engine *streak.Engine, reporter *stats.Reporter, owner string) *Handler {
	return &Handler{engine: engine, reporter: reporter, owner: owner}
}

// StreakResource returns the MCP resource definition for the streak.
func (h *Handler) StreakResource() mcp.Resource {
	return mcp.NewResource(
		StreakURI,
		"Completion Streak",
		mcp.WithResourceDescription("Current and longest streak, last completed day and per-day completion flags"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStreak returns the owner's streak as JSON.
func (h *Handler) HandleStreak(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.engine.Current(ctx, h.owner)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, st)
}

// StatsResource returns the MCP resource definition for the stats report.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Daylog Stats",
		mcp.WithResourceDescription("Counts of todos, notes, folders and chats with streak figures"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the owner's stats report as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rep, err := h.reporter.Report(ctx, h.owner)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, rep)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
