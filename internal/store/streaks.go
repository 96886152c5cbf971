package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/daylog-app/daylog/internal/model"
)

type streakRow struct {
	OwnerID             string `db:"owner_id"`
	CurrentStreak       int    `db:"current_streak"`
	LongestStreak       int    `db:"longest_streak"`
	LastCompletedDate   string `db:"last_completed_date"`
	WeeklyProgress      string `db:"weekly_progress"`
	TotalTodosCompleted int    `db:"total_todos_completed"`
	UpdatedAt           string `db:"updated_at"`
}

// GetStreak loads the owner's streak. found is false when none exists yet.
func (s *Store) GetStreak(ctx context.Context, ownerID string) (streak model.Streak, found bool, err error) {
	var row streakRow
	err = s.get(ctx, &row, `
		SELECT owner_id, current_streak, longest_streak, last_completed_date,
		       weekly_progress, total_todos_completed, updated_at
		FROM streaks WHERE owner_id = ?`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewStreak(ownerID), false, nil
	}
	if err != nil {
		return model.Streak{}, false, fmt.Errorf("get streak: %w", err)
	}

	progress := map[model.Date]bool{}
	if row.WeeklyProgress != "" {
		if err := json.Unmarshal([]byte(row.WeeklyProgress), &progress); err != nil {
			return model.Streak{}, false, fmt.Errorf("decode weekly progress: %w", err)
		}
	}
	return model.Streak{
		OwnerID:             row.OwnerID,
		CurrentStreak:       row.CurrentStreak,
		LongestStreak:       row.LongestStreak,
		LastCompletedDate:   model.Date(row.LastCompletedDate),
		WeeklyProgress:      progress,
		TotalTodosCompleted: row.TotalTodosCompleted,
		UpdatedAt:           row.UpdatedAt,
	}, true, nil
}

// SaveStreak upserts the owner's streak record.
func (s *Store) SaveStreak(ctx context.Context, st model.Streak) error {
	progress := st.WeeklyProgress
	if progress == nil {
		progress = map[model.Date]bool{}
	}
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode weekly progress: %w", err)
	}
	_, err = s.exec(ctx, `
		INSERT INTO streaks (owner_id, current_streak, longest_streak, last_completed_date,
		                     weekly_progress, total_todos_completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			current_streak        = excluded.current_streak,
			longest_streak        = excluded.longest_streak,
			last_completed_date   = excluded.last_completed_date,
			weekly_progress       = excluded.weekly_progress,
			total_todos_completed = excluded.total_todos_completed,
			updated_at            = excluded.updated_at`,
		st.OwnerID, st.CurrentStreak, st.LongestStreak, string(st.LastCompletedDate),
		string(raw), st.TotalTodosCompleted, Now(),
	)
	return model.WriteFailed("save streak", err)
}
