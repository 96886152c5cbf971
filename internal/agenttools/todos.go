package agenttools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/ops"
)

// CreateTodoTool handles the create_todo MCP tool.
type CreateTodoTool struct{ base }

// NewCreateTodoTool creates a CreateTodoTool acting as owner.
func NewCreateTodoTool(exec *ops.Executor, owner string) *CreateTodoTool {
	return &CreateTodoTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for create_todo.
func (t *CreateTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("create_todo",
		mcp.WithDescription("Create a todo. Give a date (YYYY-MM-DD) to put it on that day's list."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Todo text"),
		),
		mcp.WithString("date",
			mcp.Description("Day the todo belongs to, YYYY-MM-DD"),
		),
		mcp.WithString("folder_id",
			mcp.Description("Folder to file the todo in"),
		),
		mcp.WithBoolean("pinned",
			mcp.Description("Pin the todo (default: false)"),
		),
	)
}

// Handle processes the create_todo tool call.
func (t *CreateTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.CreateTodo{
		Content:  req.GetString("content", ""),
		Date:     optDate(req, "date"),
		FolderID: optString(req, "folder_id"),
		Pinned:   boolArg(req, "pinned", false),
	})
}

// UpdateTodoTool handles the update_todo MCP tool.
type UpdateTodoTool struct{ base }

// NewUpdateTodoTool creates an UpdateTodoTool acting as owner.
func NewUpdateTodoTool(exec *ops.Executor, owner string) *UpdateTodoTool {
	return &UpdateTodoTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for update_todo.
func (t *UpdateTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("update_todo",
		mcp.WithDescription("Change a todo's text or pinned flag. Only the fields you pass change."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID")),
		mcp.WithString("content", mcp.Description("New text")),
		mcp.WithBoolean("pinned", mcp.Description("New pinned flag")),
	)
}

// Handle processes the update_todo tool call.
func (t *UpdateTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.UpdateTodo{
		TodoID:  req.GetString("todo_id", ""),
		Content: optString(req, "content"),
		Pinned:  optBool(req, "pinned"),
	})
}

// CompleteTodoTool handles the complete_todo MCP tool.
type CompleteTodoTool struct{ base }

// NewCompleteTodoTool creates a CompleteTodoTool acting as owner.
func NewCompleteTodoTool(exec *ops.Executor, owner string) *CompleteTodoTool {
	return &CompleteTodoTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for complete_todo.
func (t *CompleteTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_todo",
		mcp.WithDescription("Mark a todo done. Safe to call again on a todo that is already done."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID")),
	)
}

// Handle processes the complete_todo tool call.
func (t *CompleteTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.CompleteTodo{TodoID: req.GetString("todo_id", "")})
}

// DeleteTodoTool handles the delete_todo MCP tool.
type DeleteTodoTool struct{ base }

// NewDeleteTodoTool creates a DeleteTodoTool acting as owner.
func NewDeleteTodoTool(exec *ops.Executor, owner string) *DeleteTodoTool {
	return &DeleteTodoTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for delete_todo.
func (t *DeleteTodoTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_todo",
		mcp.WithDescription("Delete a todo permanently. Deleting a todo that is already gone succeeds."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("Todo ID")),
	)
}

// Handle processes the delete_todo tool call.
func (t *DeleteTodoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.DeleteTodo{TodoID: req.GetString("todo_id", "")})
}

// MoveTodosTool handles the move_todos_to_date MCP tool.
type MoveTodosTool struct{ base }

// NewMoveTodosTool creates a MoveTodosTool acting as owner.
func NewMoveTodosTool(exec *ops.Executor, owner string) *MoveTodosTool {
	return &MoveTodosTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for move_todos_to_date.
func (t *MoveTodosTool) Definition() mcp.Tool {
	return mcp.NewTool("move_todos_to_date",
		mcp.WithDescription("Move todos to another day. IDs that cannot be moved are skipped; movedCount says how many moved."),
		mcp.WithArray("todo_ids",
			mcp.Required(),
			mcp.Description("Todo IDs to move"),
			mcp.WithStringItems(),
		),
		mcp.WithString("target_date", mcp.Required(), mcp.Description("Destination day, YYYY-MM-DD")),
	)
}

// Handle processes the move_todos_to_date tool call.
func (t *MoveTodosTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := stringSlice(req, "todo_ids")
	if len(ids) == 0 {
		return mcp.NewToolResultError("'todo_ids' must list at least one id"), nil
	}
	return t.run(ctx, ops.MoveTodosToDate{
		TodoIDs:    ids,
		TargetDate: model.Date(req.GetString("target_date", "")),
	})
}

// SearchTodosTool handles the search_todos MCP tool.
type SearchTodosTool struct{ base }

// NewSearchTodosTool creates a SearchTodosTool acting as owner.
func NewSearchTodosTool(exec *ops.Executor, owner string) *SearchTodosTool {
	return &SearchTodosTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for search_todos.
func (t *SearchTodosTool) Definition() mcp.Tool {
	return mcp.NewTool("search_todos",
		mcp.WithDescription("Full-text search over todo text. Returns at most 20 matches, best first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Words to search for")),
		mcp.WithString("date", mcp.Description("Only todos on this day, YYYY-MM-DD")),
		mcp.WithBoolean("include_completed", mcp.Description("Include done todos (default: false)")),
	)
}

// Handle processes the search_todos tool call.
func (t *SearchTodosTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.SearchTodos{
		Query:            req.GetString("query", ""),
		Date:             optDate(req, "date"),
		IncludeCompleted: optBool(req, "include_completed"),
	})
}

// TodosForDateTool handles the get_todos_for_date MCP tool.
type TodosForDateTool struct{ base }

// NewTodosForDateTool creates a TodosForDateTool acting as owner.
func NewTodosForDateTool(exec *ops.Executor, owner string) *TodosForDateTool {
	return &TodosForDateTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for get_todos_for_date.
func (t *TodosForDateTool) Definition() mcp.Tool {
	return mcp.NewTool("get_todos_for_date",
		mcp.WithDescription("List the todos of one day in display order."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day, YYYY-MM-DD")),
		mcp.WithBoolean("include_completed", mcp.Description("Include done todos (default: true)")),
	)
}

// Handle processes the get_todos_for_date tool call.
func (t *TodosForDateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.GetTodosForDate{
		Date:             model.Date(req.GetString("date", "")),
		IncludeCompleted: optBool(req, "include_completed"),
	})
}

// ArchiveDateTool handles the archive_date_and_todos MCP tool.
type ArchiveDateTool struct{ base }

// NewArchiveDateTool creates an ArchiveDateTool acting as owner.
func NewArchiveDateTool(exec *ops.Executor, owner string) *ArchiveDateTool {
	return &ArchiveDateTool{base{exec, owner}}
}

// Definition returns the MCP tool definition for archive_date_and_todos.
func (t *ArchiveDateTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_date_and_todos",
		mcp.WithDescription("Archive a day: every open todo on it is archived and the day is marked archived."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day, YYYY-MM-DD")),
	)
}

// Handle processes the archive_date_and_todos tool call.
func (t *ArchiveDateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, ops.ArchiveDateAndTodos{Date: model.Date(req.GetString("date", ""))})
}
