package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/daylog-app/daylog/internal/model"
)

const todoColumns = `id, owner_id, date, content, kind, completed, archived, sort_order,
	parent_id, collapsed, pinned, folder_id, backlog, created_at, updated_at`

// qualifyingClause selects todos that count toward the streak. The done
// marker (completed and archived) still qualifies.
const qualifyingClause = `date IS NOT NULL AND date <> '' AND folder_id IS NULL
	AND backlog = 0 AND pinned = 0 AND (archived = 0 OR completed = 1)`

// InsertTodo stores t, assigning an id, timestamps and order when unset.
func (s *Store) InsertTodo(ctx context.Context, t *model.Todo) error {
	if t.ID == "" {
		t.ID = s.NewID()
	}
	if t.Kind == "" {
		t.Kind = model.KindTodo
	}
	if t.Order == 0 {
		t.Order = NowOrder()
	}
	now := Now()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := s.exec(ctx, `
		INSERT INTO todos (`+todoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, nullableDate(t.Date), t.Content, string(t.Kind),
		boolInt(t.Completed), boolInt(t.Archived), t.Order,
		nullableString(t.ParentID), boolInt(t.Collapsed), boolInt(t.Pinned),
		nullableString(t.FolderID), boolInt(t.Backlog), t.CreatedAt, t.UpdatedAt,
	)
	return model.WriteFailed("insert todo", err)
}

// GetTodo loads a todo owned by ownerID.
func (s *Store) GetTodo(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	var t model.Todo
	err := s.get(ctx, &t, `SELECT `+todoColumns+` FROM todos WHERE owner_id = ? AND id = ?`, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return &t, nil
}

// PatchTodo applies p to the todo. The caller has already run the guard.
func (s *Store) PatchTodo(ctx context.Context, ownerID, id string, p model.TodoPatch) error {
	if p.Empty() {
		return nil
	}
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Content != nil {
		set("content", *p.Content)
	}
	if p.Kind != nil {
		set("kind", string(*p.Kind))
	}
	if p.Completed != nil {
		set("completed", boolInt(*p.Completed))
	}
	if p.Archived != nil {
		set("archived", boolInt(*p.Archived))
	}
	if p.Pinned != nil {
		set("pinned", boolInt(*p.Pinned))
	}
	if p.Collapsed != nil {
		set("collapsed", boolInt(*p.Collapsed))
	}
	if p.Backlog != nil {
		set("backlog", boolInt(*p.Backlog))
	}
	if p.Order != nil {
		set("sort_order", *p.Order)
	}
	switch {
	case p.ClearDate:
		set("date", nil)
	case p.Date != nil:
		set("date", string(*p.Date))
	}
	switch {
	case p.ClearFolder:
		set("folder_id", nil)
	case p.FolderID != nil:
		set("folder_id", *p.FolderID)
	}
	switch {
	case p.ClearParent:
		set("parent_id", nil)
	case p.ParentID != nil:
		set("parent_id", *p.ParentID)
	}
	set("updated_at", Now())
	args = append(args, ownerID, id)

	_, err := s.exec(ctx,
		"UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE owner_id = ? AND id = ?",
		args...,
	)
	return model.WriteFailed("update todo", err)
}

// DeleteTodo hard-deletes a todo. It reports whether a row was removed.
func (s *Store) DeleteTodo(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := s.exec(ctx, "DELETE FROM todos WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return false, model.WriteFailed("delete todo", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// TodoFilter narrows TodosForDate.
type TodoFilter struct {
	IncludeCompleted bool
	// OnlyOpen restricts to todos that are not archived.
	OnlyOpen bool
}

// TodosForDate lists an owner's todos on date in display order.
func (s *Store) TodosForDate(ctx context.Context, ownerID string, date model.Date, f TodoFilter) ([]model.Todo, error) {
	q := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = ? AND date = ?`
	if !f.IncludeCompleted {
		q += " AND completed = 0"
	}
	if f.OnlyOpen {
		q += " AND archived = 0"
	}
	q += " ORDER BY sort_order, rowid"

	var todos []model.Todo
	if err := s.selectAll(ctx, &todos, q, ownerID, string(date)); err != nil {
		return nil, fmt.Errorf("todos for date: %w", err)
	}
	return todos, nil
}

// TodosInFolder lists an owner's todos filed in folderID.
func (s *Store) TodosInFolder(ctx context.Context, ownerID, folderID string) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.selectAll(ctx, &todos,
		`SELECT `+todoColumns+` FROM todos WHERE owner_id = ? AND folder_id = ? ORDER BY sort_order, rowid`,
		ownerID, folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("todos in folder: %w", err)
	}
	return todos, nil
}

// QualifyingTodos lists the todos on date that count toward the streak.
func (s *Store) QualifyingTodos(ctx context.Context, ownerID string, date model.Date) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.selectAll(ctx, &todos,
		`SELECT `+todoColumns+` FROM todos WHERE owner_id = ? AND date = ? AND `+qualifyingClause+`
		 ORDER BY sort_order, rowid`,
		ownerID, string(date),
	)
	if err != nil {
		return nil, fmt.Errorf("qualifying todos: %w", err)
	}
	return todos, nil
}

// CountCompletedQualifying counts completed qualifying todos across all dates.
func (s *Store) CountCompletedQualifying(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.get(ctx, &n,
		`SELECT COUNT(*) FROM todos WHERE owner_id = ? AND completed = 1 AND `+qualifyingClause,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return n, nil
}

// TodoSearch holds the optional filters of SearchTodos.
type TodoSearch struct {
	Date             model.Date
	IncludeCompleted bool
}

// SearchTodos runs a full-text search over an owner's todo content, ranked
// by FTS5 relevance and capped at the configured todo limit (at most 20).
func (s *Store) SearchTodos(ctx context.Context, ownerID, query string, opts TodoSearch) ([]model.Todo, error) {
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return nil, nil
	}

	q := `
		SELECT ` + prefixed("t.", todoColumns) + `
		FROM todos_fts fts
		JOIN todos t ON t.rowid = fts.rowid
		WHERE todos_fts MATCH ? AND t.owner_id = ?`
	args := []any{ftsQuery, ownerID}

	if opts.Date != "" {
		q += " AND t.date = ?"
		args = append(args, string(opts.Date))
	}
	if !opts.IncludeCompleted {
		q += " AND t.completed = 0"
	}
	q += " ORDER BY fts.rank LIMIT ?"
	args = append(args, s.cfg.TodoCap())

	var todos []model.Todo
	if err := s.selectAll(ctx, &todos, q, args...); err != nil {
		return nil, fmt.Errorf("search todos: %w", err)
	}
	return todos, nil
}

// prefixed qualifies every column in a comma-separated list.
func prefixed(prefix, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func nullableDate(d *model.Date) any {
	if d == nil || *d == "" {
		return nil
	}
	return string(*d)
}
