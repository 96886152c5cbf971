// Package stats reports read-only per-owner counters.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/streak"
)

// Report is a snapshot of one owner's data.
type Report struct {
	OwnerID string       `json:"owner_id"`
	Counts  store.Counts `json:"counts"`

	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastCompletedDate   model.Date `json:"last_completed_date,omitempty"`
	TotalTodosCompleted int        `json:"total_todos_completed"`
	CompletedDays       int        `json:"completed_days"`
}

// Reporter builds Reports.
type Reporter struct {
	store   *store.Store
	streaks *streak.Engine
}

// NewReporter creates a Reporter.
func NewReporter(s *store.Store, e *streak.Engine) *Reporter {
	return &Reporter{store: s, streaks: e}
}

// Report collects counts and streak figures for ownerID.
func (r *Reporter) Report(ctx context.Context, ownerID string) (*Report, error) {
	counts, err := r.store.CountFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	st, err := r.streaks.Current(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("stats streak: %w", err)
	}
	rep := &Report{
		OwnerID:             ownerID,
		Counts:              *counts,
		CurrentStreak:       st.CurrentStreak,
		LongestStreak:       st.LongestStreak,
		LastCompletedDate:   st.LastCompletedDate,
		TotalTodosCompleted: st.TotalTodosCompleted,
	}
	for _, done := range st.WeeklyProgress {
		if done {
			rep.CompletedDays++
		}
	}
	return rep, nil
}

// Format renders a report as plain text.
func Format(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s\n", r.OwnerID)
	fmt.Fprintf(&b, "  Todos:          %d (%d completed, %d pinned, %d backlog)\n",
		r.Counts.Todos, r.Counts.CompletedTodos, r.Counts.PinnedTodos, r.Counts.BacklogTodos)
	fmt.Fprintf(&b, "  Notes:          %d\n", r.Counts.Notes)
	fmt.Fprintf(&b, "  Folders:        %d\n", r.Counts.Folders)
	fmt.Fprintf(&b, "  Chats:          %d\n", r.Counts.Chats)
	fmt.Fprintf(&b, "  Archived days:  %d\n", r.Counts.ArchivedDates)
	fmt.Fprintf(&b, "  Streak:         %d current, %d longest\n", r.CurrentStreak, r.LongestStreak)
	if r.LastCompletedDate != "" {
		fmt.Fprintf(&b, "  Last completed: %s\n", r.LastCompletedDate)
	}
	fmt.Fprintf(&b, "  Days completed: %d\n", r.CompletedDays)
	fmt.Fprintf(&b, "  Todos done:     %d\n", r.TotalTodosCompleted)
	return b.String()
}
