package store

import (
	"context"
	"fmt"
)

// Counts holds raw per-owner record counts.
type Counts struct {
	Todos          int `json:"todos" db:"todos"`
	CompletedTodos int `json:"completed_todos" db:"completed_todos"`
	PinnedTodos    int `json:"pinned_todos" db:"pinned_todos"`
	BacklogTodos   int `json:"backlog_todos" db:"backlog_todos"`
	Notes          int `json:"notes" db:"notes"`
	Folders        int `json:"folders" db:"folders"`
	Chats          int `json:"chats" db:"chats"`
	ArchivedDates  int `json:"archived_dates" db:"archived_dates"`
}

// CountFor returns record counts for one owner.
func (s *Store) CountFor(ctx context.Context, ownerID string) (*Counts, error) {
	var c Counts
	err := s.get(ctx, &c, `
		SELECT
			(SELECT COUNT(*) FROM todos WHERE owner_id = ?)                   AS todos,
			(SELECT COUNT(*) FROM todos WHERE owner_id = ? AND completed = 1) AS completed_todos,
			(SELECT COUNT(*) FROM todos WHERE owner_id = ? AND pinned = 1)    AS pinned_todos,
			(SELECT COUNT(*) FROM todos WHERE owner_id = ? AND backlog = 1)   AS backlog_todos,
			(SELECT COUNT(*) FROM notes WHERE owner_id = ?)                   AS notes,
			(SELECT COUNT(*) FROM folders WHERE owner_id = ?)                 AS folders,
			(SELECT COUNT(*) FROM chats WHERE owner_id = ?)                   AS chats,
			(SELECT COUNT(*) FROM archived_dates WHERE owner_id = ?)          AS archived_dates`,
		ownerID, ownerID, ownerID, ownerID, ownerID, ownerID, ownerID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	return &c, nil
}
