package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Since(ctx context.Context, userID string, since time.Time) ([]*model.Session, error)
	All(ctx context.Context, userID string) ([]*model.Session, error)
	DailyMinutes(ctx context.Context, userID string, since time.Time) ([]model.DailyMinutes, error)
}

type sessionRepository struct {
	db sqlx.ExtContext
}

func NewSessionRepository(db sqlx.ExtContext) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO learning_sessions (id, user_id, skill_name, session_date, minutes, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.SkillName,
		session.SessionDate,
		session.Minutes,
		session.Note,
		session.CreatedAt,
	)

	return err
}

// Since returns sessions dated on or after since, newest first
func (r *sessionRepository) Since(ctx context.Context, userID string, since time.Time) ([]*model.Session, error) {
	sessions := []*model.Session{}
	query := `SELECT * FROM learning_sessions
	          WHERE user_id = $1 AND session_date >= $2
	          ORDER BY session_date DESC, created_at DESC`

	err := sqlx.SelectContext(ctx, r.db, &sessions, query, userID, since)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) All(ctx context.Context, userID string) ([]*model.Session, error) {
	sessions := []*model.Session{}
	query := `SELECT * FROM learning_sessions WHERE user_id = $1 ORDER BY session_date DESC, created_at DESC`

	err := sqlx.SelectContext(ctx, r.db, &sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// DailyMinutes sums minutes per session date, oldest day first
func (r *sessionRepository) DailyMinutes(ctx context.Context, userID string, since time.Time) ([]model.DailyMinutes, error) {
	days := []model.DailyMinutes{}
	query := `SELECT session_date AS day, SUM(minutes) AS minutes
	          FROM learning_sessions
	          WHERE user_id = $1 AND session_date >= $2
	          GROUP BY session_date
	          ORDER BY session_date ASC`

	err := sqlx.SelectContext(ctx, r.db, &days, query, userID, since)
	if err != nil {
		return nil, err
	}

	return days, nil
}
