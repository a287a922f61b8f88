package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/model"
)

var (
	ErrProgressNotFound = errors.New("progress not found")
)

type ProgressRepository interface {
	AddMinutes(ctx context.Context, progress *model.Progress) error
	Set(ctx context.Context, progress *model.Progress) error
	ByKey(ctx context.Context, userID, skill string) (*model.Progress, error)
	ForUser(ctx context.Context, userID string) ([]*model.Progress, error)
	Totals(ctx context.Context, userID string) (*ProgressTotals, error)
}

type ProgressTotals struct {
	Tracked   int `db:"tracked"`
	Completed int `db:"completed"`
	Minutes   int `db:"minutes"`
}

type progressRepository struct {
	db sqlx.ExtContext
}

func NewProgressRepository(db sqlx.ExtContext) ProgressRepository {
	return &progressRepository{db: db}
}

// AddMinutes increments minutes_spent by progress.MinutesSpent in a single
// statement, inserting a fresh not_started record when none exists.
func (r *progressRepository) AddMinutes(ctx context.Context, progress *model.Progress) error {
	query := `INSERT INTO skill_progress (id, user_id, skill_name, course_name, percentage, minutes_spent, status, last_activity, completed_at, notes, created_at)
	          VALUES ($1, $2, $3, '', 0, $4, $5, $6, NULL, '', $7)
	          ON CONFLICT (user_id, skill_name) DO UPDATE
	          SET minutes_spent = skill_progress.minutes_spent + excluded.minutes_spent,
	              last_activity = excluded.last_activity`

	_, err := r.db.ExecContext(ctx, query,
		progress.ID,
		progress.UserID,
		progress.SkillName,
		progress.MinutesSpent,
		model.ProgressStatusNotStarted,
		progress.LastActivity,
		progress.CreatedAt,
	)

	return err
}

// Set overwrites course, percentage, status and notes. Accumulated minutes
// are kept and an existing completed_at is never replaced or cleared.
func (r *progressRepository) Set(ctx context.Context, progress *model.Progress) error {
	query := `INSERT INTO skill_progress (id, user_id, skill_name, course_name, percentage, minutes_spent, status, last_activity, completed_at, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10)
	          ON CONFLICT (user_id, skill_name) DO UPDATE
	          SET course_name = excluded.course_name,
	              percentage = excluded.percentage,
	              status = excluded.status,
	              notes = excluded.notes,
	              last_activity = excluded.last_activity,
	              completed_at = COALESCE(skill_progress.completed_at, excluded.completed_at)`

	_, err := r.db.ExecContext(ctx, query,
		progress.ID,
		progress.UserID,
		progress.SkillName,
		progress.CourseName,
		progress.Percentage,
		progress.Status,
		progress.LastActivity,
		progress.CompletedAt,
		progress.Notes,
		progress.CreatedAt,
	)

	return err
}

func (r *progressRepository) ByKey(ctx context.Context, userID, skill string) (*model.Progress, error) {
	progress := &model.Progress{}
	query := `SELECT * FROM skill_progress WHERE user_id = $1 AND skill_name = $2`

	err := sqlx.GetContext(ctx, r.db, progress, query, userID, skill)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// ForUser returns every record for the user, most recently active first
func (r *progressRepository) ForUser(ctx context.Context, userID string) ([]*model.Progress, error) {
	records := []*model.Progress{}
	query := `SELECT * FROM skill_progress WHERE user_id = $1 ORDER BY last_activity DESC, skill_name ASC`

	err := sqlx.SelectContext(ctx, r.db, &records, query, userID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *progressRepository) Totals(ctx context.Context, userID string) (*ProgressTotals, error) {
	totals := &ProgressTotals{}
	query := `SELECT COUNT(*) AS tracked,
	                 COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0) AS completed,
	                 COALESCE(SUM(minutes_spent), 0) AS minutes
	          FROM skill_progress WHERE user_id = $1`

	err := sqlx.GetContext(ctx, r.db, totals, query, userID, model.ProgressStatusCompleted)
	if err != nil {
		return nil, err
	}

	return totals, nil
}
