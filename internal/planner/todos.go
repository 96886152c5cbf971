package planner

import (
	"context"
	"errors"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

// NewTodo holds the input of CreateTodo.
type NewTodo struct {
	Content  string
	Kind     model.TodoKind
	Date     *model.Date
	FolderID *string
	ParentID *string
	Pinned   bool
	Backlog  bool
}

// CreateTodo stores a new todo with order = now and every flag cleared
// except the ones requested.
func (s *Service) CreateTodo(ctx context.Context, ownerID string, in NewTodo) (*model.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	content, err := requireText("content", in.Content)
	if err != nil {
		return nil, err
	}
	kind := in.Kind
	if kind == "" {
		kind = model.KindTodo
	}
	if err := model.ValidateKind(kind); err != nil {
		return nil, err
	}
	if in.Date != nil {
		if _, err := model.ParseDate(string(*in.Date)); err != nil {
			return nil, err
		}
	}

	t := &model.Todo{
		OwnerID:  ownerID,
		Date:     in.Date,
		Content:  content,
		Kind:     kind,
		Pinned:   in.Pinned,
		Backlog:  in.Backlog,
		FolderID: in.FolderID,
		ParentID: in.ParentID,
		Order:    store.NowOrder(),
	}
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if in.FolderID != nil {
			if err := tx.RequireOwned(ctx, store.Folders, ownerID, *in.FolderID); err != nil {
				return err
			}
		}
		if in.ParentID != nil {
			if err := tx.RequireOwned(ctx, store.Todos, ownerID, *in.ParentID); err != nil {
				return err
			}
		}
		return tx.InsertTodo(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTodo loads one of the owner's todos.
func (s *Service) GetTodo(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	return s.store.GetTodo(ctx, ownerID, id)
}

// UpdateTodo applies a guarded partial update. An empty patch is a no-op.
// Changes that can move the todo in or out of a date's streak picture
// recompute both the old and the new date.
func (s *Service) UpdateTodo(ctx context.Context, ownerID, id string, p model.TodoPatch) (*model.Todo, error) {
	if p.Content != nil {
		c, err := requireText("content", *p.Content)
		if err != nil {
			return nil, err
		}
		p.Content = &c
	}
	if p.Kind != nil {
		if err := model.ValidateKind(*p.Kind); err != nil {
			return nil, err
		}
	}
	if p.Date != nil {
		if _, err := model.ParseDate(string(*p.Date)); err != nil {
			return nil, err
		}
	}

	var after *model.Todo
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
			return err
		}
		if p.FolderID != nil {
			if err := tx.RequireOwned(ctx, store.Folders, ownerID, *p.FolderID); err != nil {
				return err
			}
		}
		if p.ParentID != nil {
			if *p.ParentID == id {
				return model.Invalid("parent_id", "a todo cannot be its own parent")
			}
			if err := tx.RequireOwned(ctx, store.Todos, ownerID, *p.ParentID); err != nil {
				return err
			}
		}
		before, err := tx.GetTodo(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p.Empty() {
			after = before
			return nil
		}
		if err := tx.PatchTodo(ctx, ownerID, id, p); err != nil {
			return err
		}
		if after, err = tx.GetTodo(ctx, ownerID, id); err != nil {
			return err
		}
		if streakRelevant(*before, *after) {
			return s.recomputeDates(ctx, tx, ownerID, before.DateValue(), after.DateValue())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}

// streakRelevant reports whether an update changes completion state,
// changes whether the todo qualifies, or moves a qualifying todo between
// dates.
func streakRelevant(before, after model.Todo) bool {
	if before.Completed != after.Completed || before.Qualifies() != after.Qualifies() {
		return true
	}
	return before.DateValue() != after.DateValue() && (before.Qualifies() || after.Qualifies())
}

// SetCompleted moves a todo into or out of the done state
// (completed and archived together). It is idempotent: a todo already in
// the target state is left untouched and changed is false.
func (s *Service) SetCompleted(ctx context.Context, ownerID, id string, done bool) (changed bool, err error) {
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
			return err
		}
		t, err := tx.GetTodo(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if t.Completed == done {
			return nil
		}
		if err := tx.PatchTodo(ctx, ownerID, id, model.TodoPatch{Completed: &done, Archived: &done}); err != nil {
			return err
		}
		changed = true
		// A todo archived while open starts qualifying once it is done.
		after := *t
		after.Completed, after.Archived = done, done
		if !t.Qualifies() && !after.Qualifies() {
			return nil
		}
		return s.recomputeDates(ctx, tx, ownerID, t.DateValue())
	})
	return changed, err
}

// DeleteTodo hard-deletes a todo and recomputes its date if it counted
// toward the streak.
func (s *Service) DeleteTodo(ctx context.Context, ownerID, id string) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
			return err
		}
		t, err := tx.GetTodo(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteTodo(ctx, ownerID, id); err != nil {
			return err
		}
		if t.Qualifies() {
			return s.recomputeDates(ctx, tx, ownerID, t.DateValue())
		}
		return nil
	})
}

// MoveTodosToDate moves each owned todo to target. Ids that fail the
// guard or the write are skipped; the count of moved todos is returned.
// Every source date and the target date are recomputed.
func (s *Service) MoveTodosToDate(ctx context.Context, ownerID string, ids []string, target model.Date) (int, error) {
	if err := requireOwner(ownerID); err != nil {
		return 0, err
	}
	if _, err := model.ParseDate(string(target)); err != nil {
		return 0, err
	}

	moved := s.fanOut(dedupe(ids), func(id string) bool {
		err := s.store.WithTx(ctx, func(tx *store.Store) error {
			if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
				return err
			}
			t, err := tx.GetTodo(ctx, ownerID, id)
			if err != nil {
				return err
			}
			if err := tx.PatchTodo(ctx, ownerID, id, model.TodoPatch{Date: &target}); err != nil {
				return err
			}
			if t.DateValue() != target && t.Qualifies() {
				return s.recomputeDates(ctx, tx, ownerID, t.DateValue())
			}
			return nil
		})
		if err != nil {
			if !errors.Is(err, model.ErrNotFoundOrUnauthorized) {
				warnf("move todo %s: %v", id, err)
			}
			return false
		}
		return true
	})

	if moved > 0 {
		if _, err := s.streaks.Recompute(ctx, ownerID, target); err != nil {
			warnf("recompute %s after move: %v", target, err)
		}
	}
	return moved, nil
}

// ArchiveDate archives every non-archived todo on date concurrently and
// records the date as archived unless it already is. It returns how many
// todos were archived by this call.
func (s *Service) ArchiveDate(ctx context.Context, ownerID string, date model.Date) (int, error) {
	if err := requireOwner(ownerID); err != nil {
		return 0, err
	}
	if _, err := model.ParseDate(string(date)); err != nil {
		return 0, err
	}

	open, err := s.store.TodosForDate(ctx, ownerID, date, store.TodoFilter{IncludeCompleted: true, OnlyOpen: true})
	if err != nil {
		return 0, err
	}
	archived := s.setArchived(ctx, ownerID, todoIDs(open), true)

	// The marker insert is a no-op when the date is already archived.
	if _, err := s.store.MarkDateArchived(ctx, ownerID, date); err != nil {
		return archived, err
	}
	return archived, nil
}

// UnarchiveDate removes the archived marker of date and restores its
// incomplete todos. Completed todos keep their done marker.
func (s *Service) UnarchiveDate(ctx context.Context, ownerID string, date model.Date) (int, error) {
	if err := requireOwner(ownerID); err != nil {
		return 0, err
	}
	if _, err := model.ParseDate(string(date)); err != nil {
		return 0, err
	}
	todos, err := s.store.TodosForDate(ctx, ownerID, date, store.TodoFilter{})
	if err != nil {
		return 0, err
	}
	var shelved []string
	for _, t := range todos {
		if t.Archived {
			shelved = append(shelved, t.ID)
		}
	}
	restored := s.setArchived(ctx, ownerID, shelved, false)
	if err := s.store.UnmarkDateArchived(ctx, ownerID, date); err != nil {
		return restored, err
	}
	return restored, nil
}

// setArchived flips the archived flag of each id concurrently.
func (s *Service) setArchived(ctx context.Context, ownerID string, ids []string, archived bool) int {
	return s.fanOut(ids, func(id string) bool {
		err := s.store.WithTx(ctx, func(tx *store.Store) error {
			if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
				return err
			}
			return tx.PatchTodo(ctx, ownerID, id, model.TodoPatch{Archived: &archived})
		})
		if err != nil {
			warnf("set archived=%t on todo %s: %v", archived, id, err)
			return false
		}
		return true
	})
}

// ReorderTodos assigns increasing order values to ids in the given order.
// Every id must belong to the owner.
func (s *Service) ReorderTodos(ctx context.Context, ownerID string, ids []string) error {
	base := store.NowOrder()
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		for i, id := range dedupe(ids) {
			if err := tx.RequireOwned(ctx, store.Todos, ownerID, id); err != nil {
				return err
			}
			order := base + int64(i)
			if err := tx.PatchTodo(ctx, ownerID, id, model.TodoPatch{Order: &order}); err != nil {
				return err
			}
		}
		return nil
	})
}

// TodosForDate lists the owner's todos on date.
func (s *Service) TodosForDate(ctx context.Context, ownerID string, date model.Date, includeCompleted bool) ([]model.Todo, error) {
	if _, err := model.ParseDate(string(date)); err != nil {
		return nil, err
	}
	return s.store.TodosForDate(ctx, ownerID, date, store.TodoFilter{IncludeCompleted: includeCompleted})
}

// SearchTodos runs a capped full-text search over the owner's todos.
func (s *Service) SearchTodos(ctx context.Context, ownerID, query string, opts store.TodoSearch) ([]model.Todo, error) {
	q, err := requireText("query", query)
	if err != nil {
		return nil, err
	}
	if opts.Date != "" {
		if _, err := model.ParseDate(string(opts.Date)); err != nil {
			return nil, err
		}
	}
	return s.store.SearchTodos(ctx, ownerID, q, opts)
}

func todoIDs(todos []model.Todo) []string {
	ids := make([]string, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
	}
	return ids
}
