package ops

// Result is what every operation returns. Failures are data: Success is
// false and Error carries a message the agent can read.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TodoCreated is the data of createTodo.
type TodoCreated struct {
	TodoID string `json:"todoId"`
}

// NoteSaved is the data of createNote and updateNote.
type NoteSaved struct {
	NoteID string `json:"noteId"`
}

// Moved is the data of moveTodosToDate.
type Moved struct {
	MovedCount int `json:"movedCount"`
}

// Archived is the data of archiveDateAndTodos.
type Archived struct {
	ArchivedCount int `json:"archivedCount"`
}

// TodoHit is one searchTodos match.
type TodoHit struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Date      string `json:"date,omitempty"`
	Completed bool   `json:"completed"`
	Pinned    bool   `json:"pinned"`
}

// NoteHit is one searchNotes match.
type NoteHit struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	ContentPreview string `json:"contentPreview"`
	Date           string `json:"date,omitempty"`
}

// DayTodo is one getTodosForDate entry.
type DayTodo struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
	Pinned    bool   `json:"pinned"`
	Archived  bool   `json:"archived"`
}

func ok(data any) Result { return Result{Success: true, Data: data} }

func fail(msg string) Result { return Result{Error: msg} }
