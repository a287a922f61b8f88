package model

import (
	"time"
)

// Session is one logged interval of study time. Sessions are never updated.
type Session struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	SkillName   string    `db:"skill_name" json:"skill_name"`
	SessionDate time.Time `db:"session_date" json:"session_date"`
	Minutes     int       `db:"minutes" json:"minutes"`
	Note        string    `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DailyMinutes is the total studied on one calendar day.
type DailyMinutes struct {
	Day     time.Time `db:"day" json:"day"`
	Minutes int       `db:"minutes" json:"minutes"`
}
