// Package streak derives the per-owner completion streak.
//
// The engine never applies deltas: every trigger re-reads the qualifying
// todos of one date and the exact completed total, so recomputes are safe
// to repeat and to run out of order for different dates.
package streak

import (
	"context"
	"fmt"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
)

// Policy decides how a completion dated before lastCompletedDate is counted.
type Policy string

const (
	// PolicyRestart resets the current streak to 1 on a back-dated completion.
	PolicyRestart Policy = "restart"
	// PolicyPreserve marks the day complete but leaves the current streak and
	// lastCompletedDate alone.
	PolicyPreserve Policy = "preserve"
)

// ParsePolicy validates a policy name. Empty means PolicyRestart.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyRestart:
		return PolicyRestart, nil
	case PolicyPreserve:
		return PolicyPreserve, nil
	}
	return "", model.Invalid("streak.backdate_policy", fmt.Sprintf("unknown policy %q (restart, preserve)", s))
}

// Transition is what a recompute did to a date's completion state.
type Transition string

const (
	Unchanged      Transition = "unchanged"
	NewlyCompleted Transition = "newly_completed"
	NewlyBroken    Transition = "newly_broken"
	EmptyDay       Transition = "empty_day"
)

// Day is the fresh view of one date the engine decides on.
type Day struct {
	Date         model.Date
	Qualifying   int
	AllCompleted bool
	// TotalCompleted is the exact count of completed qualifying todos across
	// every date.
	TotalCompleted int
}

// Apply returns the streak after observing day. It is a pure function of
// its inputs; prev is not modified.
func Apply(prev model.Streak, day Day, policy Policy) (model.Streak, Transition) {
	next := prev
	next.WeeklyProgress = make(map[model.Date]bool, len(prev.WeeklyProgress)+1)
	for d, v := range prev.WeeklyProgress {
		next.WeeklyProgress[d] = v
	}
	next.TotalTodosCompleted = day.TotalCompleted

	if day.Qualifying == 0 {
		return next, EmptyDay
	}

	was := prev.WeeklyProgress[day.Date]
	switch {
	case day.AllCompleted && !was:
		next.WeeklyProgress[day.Date] = true
		advance(&next, day.Date, policy)
		return next, NewlyCompleted
	case !day.AllCompleted && was:
		// Streak credit already granted is kept.
		next.WeeklyProgress[day.Date] = false
		return next, NewlyBroken
	}
	return next, Unchanged
}

// advance moves current/longest/last for a newly completed date.
func advance(s *model.Streak, date model.Date, policy Policy) {
	if s.LastCompletedDate == "" {
		s.CurrentStreak = 1
		s.LastCompletedDate = date
	} else {
		delta := date.DaysSince(s.LastCompletedDate)
		switch {
		case delta == 1:
			s.CurrentStreak++
			s.LastCompletedDate = date
		case delta == 0:
		case delta < 0 && policy == PolicyPreserve:
		default:
			s.CurrentStreak = 1
			s.LastCompletedDate = date
		}
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
}

// Engine recomputes streaks against the entity store.
type Engine struct {
	store  *store.Store
	policy Policy
}

// NewEngine creates an Engine. An empty policy means PolicyRestart.
func NewEngine(s *store.Store, policy Policy) *Engine {
	if policy == "" {
		policy = PolicyRestart
	}
	return &Engine{store: s, policy: policy}
}

// Result is the outcome of one recompute.
type Result struct {
	Streak     model.Streak `json:"streak"`
	Transition Transition   `json:"transition"`
	Saved      bool         `json:"saved"`
}

// Recompute re-derives date's contribution to the owner's streak in its own
// transaction.
func (e *Engine) Recompute(ctx context.Context, ownerID string, date model.Date) (Result, error) {
	var res Result
	err := e.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		res, err = e.RecomputeIn(ctx, tx, ownerID, date)
		return err
	})
	return res, err
}

// RecomputeIn is Recompute against a caller-supplied (usually
// transaction-bound) store, so the trigger and the recompute commit together.
func (e *Engine) RecomputeIn(ctx context.Context, s *store.Store, ownerID string, date model.Date) (Result, error) {
	if date == "" {
		return Result{}, nil
	}
	prev, found, err := s.GetStreak(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}
	todos, err := s.QualifyingTodos(ctx, ownerID, date)
	if err != nil {
		return Result{}, err
	}
	total, err := s.CountCompletedQualifying(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}

	day := Day{Date: date, Qualifying: len(todos), AllCompleted: len(todos) > 0, TotalCompleted: total}
	for _, t := range todos {
		if !t.Completed {
			day.AllCompleted = false
			break
		}
	}

	next, tr := Apply(prev, day, e.policy)
	res := Result{Streak: next, Transition: tr}

	// The record is created lazily by the first completed day.
	if !found && tr != NewlyCompleted {
		return res, nil
	}
	if err := s.SaveStreak(ctx, next); err != nil {
		return Result{}, err
	}
	res.Saved = true
	return res, nil
}

// Current returns the owner's streak, or an empty one if none exists yet.
func (e *Engine) Current(ctx context.Context, ownerID string) (model.Streak, error) {
	st, _, err := e.store.GetStreak(ctx, ownerID)
	return st, err
}

// Policy returns the engine's back-dating policy.
func (e *Engine) Policy() Policy { return e.policy }
