package model

import (
	"time"
)

const (
	ProgressStatusNotStarted = "not_started"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

const (
	MinPercentage = 0
	MaxPercentage = 100
)

// Progress is the aggregated completion state for one (user, skill) pair.
type Progress struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	SkillName    string     `db:"skill_name" json:"skill_name"`
	CourseName   string     `db:"course_name" json:"course_name"`
	Percentage   int        `db:"percentage" json:"percentage"`
	MinutesSpent int        `db:"minutes_spent" json:"minutes_spent"`
	Status       string     `db:"status" json:"status"`
	LastActivity time.Time  `db:"last_activity" json:"last_activity"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Notes        string     `db:"notes" json:"notes"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// DeriveStatus maps a completion percentage to a lifecycle status.
func DeriveStatus(percentage int) string {
	switch {
	case percentage <= MinPercentage:
		return ProgressStatusNotStarted
	case percentage < MaxPercentage:
		return ProgressStatusInProgress
	default:
		return ProgressStatusCompleted
	}
}

// StatusRank orders statuses: not_started < in_progress < completed.
// Unknown statuses rank below not_started.
func StatusRank(status string) int {
	switch status {
	case ProgressStatusNotStarted:
		return 0
	case ProgressStatusInProgress:
		return 1
	case ProgressStatusCompleted:
		return 2
	default:
		return -1
	}
}

func (p *Progress) IsCompleted() bool {
	return p.Status == ProgressStatusCompleted
}
