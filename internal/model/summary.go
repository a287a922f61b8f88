package model

import (
	"time"
)

// Summary feeds the dashboard: totals plus the daily study-time series.
type Summary struct {
	TotalMinutes       int            `json:"total_minutes"`
	SkillsTracked      int            `json:"skills_tracked"`
	SkillsCompleted    int            `json:"skills_completed"`
	AchievementsEarned int            `json:"achievements_earned"`
	WindowDays         int            `json:"window_days"`
	Daily              []DailyMinutes `json:"daily"`
}

// Snapshot is a full export of one user's ledger.
type Snapshot struct {
	UserID       string         `json:"user_id"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Progress     []*Progress    `json:"progress"`
	Sessions     []*Session     `json:"sessions"`
	Achievements []*Achievement `json:"achievements"`
}
