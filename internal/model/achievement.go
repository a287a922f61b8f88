package model

import (
	"fmt"
	"time"
)

const (
	AchievementTypeCourseCompletion = "course_completion"
)

type Achievement struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	EarnedAt    time.Time `db:"earned_at" json:"earned_at"`
}

func CompletionAchievementName(skill string) string {
	return fmt.Sprintf("Completed %s", skill)
}

func CompletionAchievementDescription(skill string) string {
	return fmt.Sprintf("Successfully completed %s course", skill)
}
