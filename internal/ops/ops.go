// Package ops is the agent-facing operation catalogue.
//
// Execute never returns a Go error and never panics: every failure,
// including a panic inside an operation, becomes a Result with
// Success=false. The human-facing planner underneath keeps returning
// ordinary errors.
package ops

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/planner"
	"github.com/daylog-app/daylog/internal/store"
)

// PreviewLength is the rune length of a searchNotes content preview.
const PreviewLength = 100

// Executor runs catalogue commands for one owner at a time.
type Executor struct {
	planner *planner.Service
}

// NewExecutor creates an Executor over p.
func NewExecutor(p *planner.Service) *Executor {
	return &Executor{planner: p}
}

// Execute runs cmd on behalf of ownerID.
func (e *Executor) Execute(ctx context.Context, ownerID string, cmd Command) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARNING: ops: %s panicked: %v", nameOf(cmd), r)
			res = fail("internal error")
		}
	}()
	if strings.TrimSpace(ownerID) == "" {
		return fail("owner id is required")
	}

	var err error
	switch c := cmd.(type) {
	case CreateTodo:
		res, err = e.createTodo(ctx, ownerID, c)
	case UpdateTodo:
		res, err = e.updateTodo(ctx, ownerID, c)
	case CompleteTodo:
		res, err = e.completeTodo(ctx, ownerID, c)
	case DeleteTodo:
		res, err = e.deleteTodo(ctx, ownerID, c)
	case MoveTodosToDate:
		res, err = e.moveTodos(ctx, ownerID, c)
	case SearchTodos:
		res, err = e.searchTodos(ctx, ownerID, c)
	case SearchNotes:
		res, err = e.searchNotes(ctx, ownerID, c)
	case GetTodosForDate:
		res, err = e.todosForDate(ctx, ownerID, c)
	case ArchiveDateAndTodos:
		res, err = e.archiveDate(ctx, ownerID, c)
	case CreateNote:
		res, err = e.createNote(ctx, ownerID, c)
	case UpdateNote:
		res, err = e.updateNote(ctx, ownerID, c)
	default:
		return fail(fmt.Sprintf("unknown operation %q", nameOf(cmd)))
	}
	if err != nil {
		return fail(message(err))
	}
	return res
}

func nameOf(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.Name()
}

// message turns an error into the text the agent sees.
func message(err error) string {
	var we *model.StoreWriteError
	switch {
	case errors.Is(err, model.ErrNotFoundOrUnauthorized):
		return model.ErrNotFoundOrUnauthorized.Error()
	case model.IsValidation(err):
		return err.Error()
	case errors.As(err, &we):
		log.Printf("WARNING: ops: %v", err)
		return "store write failed: " + we.Op
	}
	log.Printf("WARNING: ops: %v", err)
	return err.Error()
}

func (e *Executor) createTodo(ctx context.Context, ownerID string, c CreateTodo) (Result, error) {
	t, err := e.planner.CreateTodo(ctx, ownerID, planner.NewTodo{
		Content:  c.Content,
		Date:     c.Date,
		FolderID: c.FolderID,
		Pinned:   c.Pinned,
	})
	if err != nil {
		return Result{}, err
	}
	return ok(TodoCreated{TodoID: t.ID}), nil
}

func (e *Executor) updateTodo(ctx context.Context, ownerID string, c UpdateTodo) (Result, error) {
	_, err := e.planner.UpdateTodo(ctx, ownerID, c.TodoID, model.TodoPatch{Content: c.Content, Pinned: c.Pinned})
	if err != nil {
		return Result{}, err
	}
	return ok(nil), nil
}

func (e *Executor) completeTodo(ctx context.Context, ownerID string, c CompleteTodo) (Result, error) {
	if _, err := e.planner.SetCompleted(ctx, ownerID, c.TodoID, true); err != nil {
		return Result{}, err
	}
	return ok(nil), nil
}

// deleteTodo treats a missing or foreign id as already deleted. Nothing
// is mutated in that case.
func (e *Executor) deleteTodo(ctx context.Context, ownerID string, c DeleteTodo) (Result, error) {
	err := e.planner.DeleteTodo(ctx, ownerID, c.TodoID)
	if err != nil && !errors.Is(err, model.ErrNotFoundOrUnauthorized) {
		return Result{}, err
	}
	return ok(nil), nil
}

func (e *Executor) moveTodos(ctx context.Context, ownerID string, c MoveTodosToDate) (Result, error) {
	n, err := e.planner.MoveTodosToDate(ctx, ownerID, c.TodoIDs, c.TargetDate)
	if err != nil {
		return Result{}, err
	}
	return ok(Moved{MovedCount: n}), nil
}

func (e *Executor) searchTodos(ctx context.Context, ownerID string, c SearchTodos) (Result, error) {
	opts := store.TodoSearch{IncludeCompleted: c.IncludeCompleted != nil && *c.IncludeCompleted}
	if c.Date != nil {
		opts.Date = *c.Date
	}
	todos, err := e.planner.SearchTodos(ctx, ownerID, c.Query, opts)
	if err != nil {
		return Result{}, err
	}
	hits := make([]TodoHit, len(todos))
	for i, t := range todos {
		hits[i] = TodoHit{
			ID:        t.ID,
			Content:   t.Content,
			Date:      string(t.DateValue()),
			Completed: t.Completed,
			Pinned:    t.Pinned,
		}
	}
	return ok(hits), nil
}

func (e *Executor) searchNotes(ctx context.Context, ownerID string, c SearchNotes) (Result, error) {
	notes, err := e.planner.SearchNotes(ctx, ownerID, c.Query)
	if err != nil {
		return Result{}, err
	}
	hits := make([]NoteHit, len(notes))
	for i, n := range notes {
		hit := NoteHit{ID: n.ID, ContentPreview: store.Truncate(n.Content, PreviewLength)}
		if n.Title != nil {
			hit.Title = *n.Title
		}
		if n.Date != nil {
			hit.Date = string(*n.Date)
		}
		hits[i] = hit
	}
	return ok(hits), nil
}

func (e *Executor) todosForDate(ctx context.Context, ownerID string, c GetTodosForDate) (Result, error) {
	include := c.IncludeCompleted == nil || *c.IncludeCompleted
	todos, err := e.planner.TodosForDate(ctx, ownerID, c.Date, include)
	if err != nil {
		return Result{}, err
	}
	out := make([]DayTodo, len(todos))
	for i, t := range todos {
		out[i] = DayTodo{ID: t.ID, Content: t.Content, Completed: t.Completed, Pinned: t.Pinned, Archived: t.Archived}
	}
	return ok(out), nil
}

func (e *Executor) archiveDate(ctx context.Context, ownerID string, c ArchiveDateAndTodos) (Result, error) {
	n, err := e.planner.ArchiveDate(ctx, ownerID, c.Date)
	if err != nil {
		return Result{}, err
	}
	return ok(Archived{ArchivedCount: n}), nil
}

func (e *Executor) createNote(ctx context.Context, ownerID string, c CreateNote) (Result, error) {
	n, err := e.planner.CreateNote(ctx, ownerID, planner.NewNote{Content: c.Content, Title: c.Title, Date: c.Date})
	if err != nil {
		return Result{}, err
	}
	return ok(NoteSaved{NoteID: n.ID}), nil
}

func (e *Executor) updateNote(ctx context.Context, ownerID string, c UpdateNote) (Result, error) {
	n, err := e.planner.UpdateNote(ctx, ownerID, c.NoteID, model.NotePatch{Title: c.Title, Content: c.Content})
	if err != nil {
		return Result{}, err
	}
	return ok(NoteSaved{NoteID: n.ID}), nil
}
