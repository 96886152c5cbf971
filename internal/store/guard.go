package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daylog-app/daylog/internal/model"
)

// Collection names an owner-indexed table the guard can check.
type Collection string

const (
	Todos       Collection = "todos"
	Notes       Collection = "notes"
	Folders     Collection = "folders"
	MonthGroups Collection = "month_groups"
	Chats       Collection = "chats"
)

// guardQueries is closed over the known collections so table names never
// come from callers. Each query hits the (owner_id, id) index.
var guardQueries = map[Collection]string{
	Todos:       "SELECT 1 FROM todos WHERE owner_id = ? AND id = ?",
	Notes:       "SELECT 1 FROM notes WHERE owner_id = ? AND id = ?",
	Folders:     "SELECT 1 FROM folders WHERE owner_id = ? AND id = ?",
	MonthGroups: "SELECT 1 FROM month_groups WHERE owner_id = ? AND id = ?",
	Chats:       "SELECT 1 FROM chats WHERE owner_id = ? AND id = ?",
}

// RequireOwned returns nil when a record with id exists in c and is owned
// by ownerID, and model.ErrNotFoundOrUnauthorized otherwise.
func (s *Store) RequireOwned(ctx context.Context, c Collection, ownerID, id string) error {
	q, ok := guardQueries[c]
	if !ok {
		return fmt.Errorf("guard: unknown collection %q", c)
	}
	if ownerID == "" || id == "" {
		return model.ErrNotFoundOrUnauthorized
	}
	var one int
	err := s.get(ctx, &one, q, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFoundOrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("guard %s: %w", c, err)
	}
	return nil
}
