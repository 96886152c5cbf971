package ops

import "github.com/daylog-app/daylog/internal/model"

// Command is one entry of the agent operation catalogue. The set is closed:
// only the types in this file implement it.
type Command interface {
	// Name is the operation's catalogue name.
	Name() string
	isCommand()
}

// CreateTodo adds a todo. Date and FolderID are optional.
type CreateTodo struct {
	Content  string
	Date     *model.Date
	FolderID *string
	Pinned   bool
}

// UpdateTodo changes only the supplied fields.
type UpdateTodo struct {
	TodoID  string
	Content *string
	Pinned  *bool
}

// CompleteTodo marks a todo done.
type CompleteTodo struct {
	TodoID string
}

// DeleteTodo removes a todo. A missing todo is not an error.
type DeleteTodo struct {
	TodoID string
}

// MoveTodosToDate moves each owned todo to TargetDate and skips the rest.
type MoveTodosToDate struct {
	TodoIDs    []string
	TargetDate model.Date
}

// SearchTodos is a capped full-text search. IncludeCompleted defaults to
// false.
type SearchTodos struct {
	Query            string
	Date             *model.Date
	IncludeCompleted *bool
}

// SearchNotes searches note content and titles.
type SearchNotes struct {
	Query string
}

// GetTodosForDate lists a day. IncludeCompleted defaults to true.
type GetTodosForDate struct {
	Date             model.Date
	IncludeCompleted *bool
}

// ArchiveDateAndTodos archives a day's open todos and marks the day.
type ArchiveDateAndTodos struct {
	Date model.Date
}

// CreateNote adds a note.
type CreateNote struct {
	Content string
	Title   *string
	Date    *model.Date
}

// UpdateNote changes only the supplied fields.
type UpdateNote struct {
	NoteID  string
	Title   *string
	Content *string
}

func (CreateTodo) Name() string          { return "createTodo" }
func (UpdateTodo) Name() string          { return "updateTodo" }
func (CompleteTodo) Name() string        { return "completeTodo" }
func (DeleteTodo) Name() string          { return "deleteTodo" }
func (MoveTodosToDate) Name() string     { return "moveTodosToDate" }
func (SearchTodos) Name() string         { return "searchTodos" }
func (SearchNotes) Name() string         { return "searchNotes" }
func (GetTodosForDate) Name() string     { return "getTodosForDate" }
func (ArchiveDateAndTodos) Name() string { return "archiveDateAndTodos" }
func (CreateNote) Name() string          { return "createNote" }
func (UpdateNote) Name() string          { return "updateNote" }

func (CreateTodo) isCommand()          {}
func (UpdateTodo) isCommand()          {}
func (CompleteTodo) isCommand()        {}
func (DeleteTodo) isCommand()          {}
func (MoveTodosToDate) isCommand()     {}
func (SearchTodos) isCommand()         {}
func (SearchNotes) isCommand()         {}
func (GetTodosForDate) isCommand()     {}
func (ArchiveDateAndTodos) isCommand() {}
func (CreateNote) isCommand()          {}
func (UpdateNote) isCommand()          {}
