package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/model"
)

var (
	ErrAchievementNotFound = errors.New("achievement not found")
)

type AchievementRepository interface {
	CreateIfAbsent(ctx context.Context, achievement *model.Achievement) (bool, error)
	ByName(ctx context.Context, userID, name string) (*model.Achievement, error)
	ForUser(ctx context.Context, userID string) ([]*model.Achievement, error)
	Count(ctx context.Context, userID string) (int, error)
}

type achievementRepository struct {
	db sqlx.ExtContext
}

func NewAchievementRepository(db sqlx.ExtContext) AchievementRepository {
	return &achievementRepository{db: db}
}

// CreateIfAbsent inserts the achievement unless the user already holds one
// with the same name. It reports whether a row was written.
func (r *achievementRepository) CreateIfAbsent(ctx context.Context, achievement *model.Achievement) (bool, error) {
	query := `INSERT INTO achievements (id, user_id, type, name, description, earned_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id, name) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		achievement.ID,
		achievement.UserID,
		achievement.Type,
		achievement.Name,
		achievement.Description,
		achievement.EarnedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *achievementRepository) ByName(ctx context.Context, userID, name string) (*model.Achievement, error) {
	achievement := &model.Achievement{}
	query := `SELECT * FROM achievements WHERE user_id = $1 AND name = $2`

	err := sqlx.GetContext(ctx, r.db, achievement, query, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAchievementNotFound
	}
	if err != nil {
		return nil, err
	}

	return achievement, nil
}

func (r *achievementRepository) ForUser(ctx context.Context, userID string) ([]*model.Achievement, error) {
	achievements := []*model.Achievement{}
	query := `SELECT * FROM achievements WHERE user_id = $1 ORDER BY earned_at DESC, name ASC`

	err := sqlx.SelectContext(ctx, r.db, &achievements, query, userID)
	if err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM achievements WHERE user_id = $1`
	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	return count, err
}
