package model

// Streak is the per-owner completion aggregate.
type Streak struct {
	OwnerID             string        `json:"owner_id"`
	CurrentStreak       int           `json:"current_streak"`
	LongestStreak       int           `json:"longest_streak"`
	LastCompletedDate   Date          `json:"last_completed_date"`
	WeeklyProgress      map[Date]bool `json:"weekly_progress"`
	TotalTodosCompleted int           `json:"total_todos_completed"`
	UpdatedAt           string        `json:"updated_at,omitempty"`
}

// NewStreak returns an empty streak for owner.
func NewStreak(ownerID string) Streak {
	return Streak{OwnerID: ownerID, WeeklyProgress: map[Date]bool{}}
}
