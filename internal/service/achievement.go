package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/skilledger/internal/metrics"
	"github.com/templui/skilledger/internal/model"
	"github.com/templui/skilledger/internal/notify"
	"github.com/templui/skilledger/internal/repository"
	"github.com/templui/skilledger/internal/validation"
)

type AchievementService struct {
	store     *repository.Store
	publisher notify.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewAchievementService(store *repository.Store, publisher notify.Publisher, m *metrics.Metrics) *AchievementService {
	if publisher == nil {
		publisher = notify.Nop{}
	}

	return &AchievementService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// GrantIfAbsent awards the completion achievement for skill unless the user
// already has it. It returns nil when nothing new was granted.
func (s *AchievementService) GrantIfAbsent(ctx context.Context, userID, skill string) (*model.Achievement, error) {
	skill = validation.NormalizeSkill(skill)

	err := validateAll(
		validation.ValidateUserID(userID),
		validation.ValidateSkill(skill),
	)
	if err != nil {
		s.metrics.Rejected("grant_achievement")
		return nil, err
	}

	var achievement *model.Achievement
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		achievement, err = s.grant(ctx, tx, userID, skill, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, storageError("grant achievement", err)
	}

	if achievement != nil {
		s.announce(ctx, achievement, skill)
	}

	return achievement, nil
}

// grant inserts the achievement inside the caller's transaction.
func (s *AchievementService) grant(ctx context.Context, tx *repository.Store, userID, skill string, at time.Time) (*model.Achievement, error) {
	achievement := &model.Achievement{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        model.AchievementTypeCourseCompletion,
		Name:        model.CompletionAchievementName(skill),
		Description: model.CompletionAchievementDescription(skill),
		EarnedAt:    at,
	}

	created, err := tx.Achievements.CreateIfAbsent(ctx, achievement)
	if err != nil {
		return nil, err
	}

	if !created {
		return nil, nil
	}

	return achievement, nil
}

// announce runs after commit. A failed publish never undoes the grant.
func (s *AchievementService) announce(ctx context.Context, achievement *model.Achievement, skill string) {
	s.metrics.AchievementGranted()
	slog.Info("achievement granted", "user_id", achievement.UserID, "name", achievement.Name)

	err := s.publisher.Publish(ctx, notify.Event{
		Type:        notify.EventAchievementGranted,
		UserID:      achievement.UserID,
		Skill:       skill,
		Achievement: achievement,
		OccurredAt:  achievement.EarnedAt,
	})
	if err != nil {
		slog.Error("failed to publish achievement", "error", err, "user_id", achievement.UserID, "name", achievement.Name)
	}
}

// AchievementsFor lists the user's achievements, most recent first
func (s *AchievementService) AchievementsFor(ctx context.Context, userID string) ([]*model.Achievement, error) {
	err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := s.store.Achievements.ForUser(ctx, userID)
	if err != nil {
		return nil, storageError("list achievements", err)
	}

	return achievements, nil
}
