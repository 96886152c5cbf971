package agenttools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/ops"
)

// SearchNotesTool handles the search_notes MCP tool.
type SearchNotesTool struct{ base }

// NewSearchNotesTool creates a SearchNotesTool acting as owner.
func NewSearchNotesTool(exec *ops.Executor, owner string) *SearchNotesTool {
	return &SearchNotesTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for search_notes.
func (t *SearchNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by content and title. Returns at most 10 notes with a short preview."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Words to search for")),
	)
}

// Handle processes the search_notes tool call.
func (t *SearchNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.SearchNotes{Query: req.GetString("query", "")})
}

// CreateNoteTool handles the create_note MCP tool.
type CreateNoteTool struct{ base }

// NewCreateNoteTool creates a CreateNoteTool acting as owner.
func NewCreateNoteTool(exec *ops.Executor, owner string) *CreateNoteTool {
	return &CreateNoteTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for create_note.
func (t *CreateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("create_note",
		mcp.WithDescription("Create a note, optionally on a day."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body (markdown)")),
		mcp.WithString("title", mcp.Description("Note title")),
		mcp.WithString("date", mcp.Description("Day the note belongs to, YYYY-MM-DD")),
	)
}

// Handle processes the create_note tool call.
func (t *CreateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.CreateNote{
		Content: req.GetString("content", ""),
		Title:   optString(req, "title"),
		Date:    optDate(req, "date"),
	})
}

// UpdateNoteTool handles the update_note MCP tool.
type UpdateNoteTool struct{ base }

// NewUpdateNoteTool creates an UpdateNoteTool acting as owner.
func NewUpdateNoteTool(exec *ops.Executor, owner string) *UpdateNoteTool {
	return &UpdateNoteTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for update_note.
func (t *UpdateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("update_note",
		mcp.WithDescription("Change a note's title or body. Only the fields you pass change."),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body")),
	)
}

// Handle processes the update_note tool call.
func (t *UpdateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.UpdateNote{
		NoteID:  req.GetString("note_id", ""),
		Title:   optString(req, "title"),
		Content: optString(req, "content"),
	})
}
