package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/skilledger/internal/metrics"
	"github.com/templui/skilledger/internal/model"
	"github.com/templui/skilledger/internal/repository"
	"github.com/templui/skilledger/internal/validation"
)

const DefaultWindowDays = 30

// Ledger is the ingress and egress surface consumed by the HTTP and CLI layers.
type Ledger interface {
	LogSession(ctx context.Context, userID, skill string, minutes int, note string) (*model.Session, error)
	SetProgress(ctx context.Context, userID, skill, course string, percentage int, note string) (*ProgressUpdate, error)
	ProgressFor(ctx context.Context, userID string) ([]*model.Progress, error)
	SessionsFor(ctx context.Context, userID string, sinceDays int) ([]*model.Session, error)
	AchievementsFor(ctx context.Context, userID string) ([]*model.Achievement, error)
}

// ProgressUpdate is the result of SetProgress. Achievement is set only when
// this update granted a new one.
type ProgressUpdate struct {
	Progress    *model.Progress    `json:"progress"`
	Achievement *model.Achievement `json:"achievement,omitempty"`
}

type ProgressService struct {
	store        *repository.Store
	achievements *AchievementService
	metrics      *metrics.Metrics
	locks        *keyLocker
	windowDays   int
	now          func() time.Time
}

var _ Ledger = (*ProgressService)(nil)

func NewProgressService(
	store *repository.Store,
	achievements *AchievementService,
	m *metrics.Metrics,
	windowDays int,
) *ProgressService {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	return &ProgressService{
		store:        store,
		achievements: achievements,
		metrics:      m,
		locks:        newKeyLocker(),
		windowDays:   windowDays,
		now:          time.Now,
	}
}

// LogSession appends a study session and adds its minutes to the matching
// progress record. Both writes commit together or not at all.
func (s *ProgressService) LogSession(ctx context.Context, userID, skill string, minutes int, note string) (*model.Session, error) {
	skill = validation.NormalizeSkill(skill)
	note = strings.TrimSpace(note)

	err := validateAll(
		validation.ValidateUserID(userID),
		validation.ValidateSkill(skill),
		validation.ValidateMinutes(minutes),
		validation.ValidateNote(note),
	)
	if err != nil {
		s.metrics.Rejected("log_session")
		return nil, err
	}

	unlock := s.locks.Lock(progressKey(userID, skill))
	defer unlock()

	now := s.now().UTC()
	session := &model.Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		SkillName:   skill,
		SessionDate: startOfDay(now),
		Minutes:     minutes,
		Note:        note,
		CreatedAt:   now,
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		err := tx.Sessions.Create(ctx, session)
		if err != nil {
			return err
		}

		return tx.Progress.AddMinutes(ctx, &model.Progress{
			ID:           uuid.New().String(),
			UserID:       userID,
			SkillName:    skill,
			MinutesSpent: minutes,
			LastActivity: now,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, storageError("log session", err)
	}

	s.metrics.SessionLogged(minutes)
	return session, nil
}

// SetProgress overwrites the percentage, course and note of a skill (last
// writer wins), derives the status, stamps the first completion and grants
// the completion achievement.
func (s *ProgressService) SetProgress(ctx context.Context, userID, skill, course string, percentage int, note string) (*ProgressUpdate, error) {
	skill = validation.NormalizeSkill(skill)
	course = strings.TrimSpace(course)
	note = strings.TrimSpace(note)

	err := validateAll(
		validation.ValidateUserID(userID),
		validation.ValidateSkill(skill),
		validation.ValidatePercentage(percentage),
		validation.ValidateCourse(course),
		validation.ValidateNote(note),
	)
	if err != nil {
		s.metrics.Rejected("set_progress")
		return nil, err
	}

	unlock := s.locks.Lock(progressKey(userID, skill))
	defer unlock()

	now := s.now().UTC()
	status := model.DeriveStatus(percentage)

	// only used if the record has never been completed
	var completedAt *time.Time
	if status == model.ProgressStatusCompleted {
		completedAt = &now
	}

	update := &ProgressUpdate{}
	var previous *model.Progress
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		previous, err = tx.Progress.ByKey(ctx, userID, skill)
		if err != nil && !errors.Is(err, repository.ErrProgressNotFound) {
			return err
		}

		err = tx.Progress.Set(ctx, &model.Progress{
			ID:           uuid.New().String(),
			UserID:       userID,
			SkillName:    skill,
			CourseName:   course,
			Percentage:   percentage,
			Status:       status,
			LastActivity: now,
			CompletedAt:  completedAt,
			Notes:        note,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		update.Progress, err = tx.Progress.ByKey(ctx, userID, skill)
		if err != nil {
			return err
		}

		if !update.Progress.IsCompleted() {
			return nil
		}

		update.Achievement, err = s.achievements.grant(ctx, tx, userID, skill, now)
		return err
	})
	if err != nil {
		return nil, storageError("set progress", err)
	}

	s.metrics.ProgressUpdated(status)
	if previous != nil && model.StatusRank(status) < model.StatusRank(previous.Status) {
		slog.Info("progress regressed", "user_id", userID, "skill", skill, "from", previous.Status, "to", status)
	}
	if update.Achievement != nil {
		s.achievements.announce(ctx, update.Achievement, skill)
	}

	return update, nil
}

// ProgressFor lists every progress record of the user, most recently active first
func (s *ProgressService) ProgressFor(ctx context.Context, userID string) ([]*model.Progress, error) {
	err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Progress.ForUser(ctx, userID)
	if err != nil {
		return nil, storageError("list progress", err)
	}

	return records, nil
}

// Progress returns a single record or repository.ErrProgressNotFound
func (s *ProgressService) Progress(ctx context.Context, userID, skill string) (*model.Progress, error) {
	skill = validation.NormalizeSkill(skill)

	err := validateAll(
		validation.ValidateUserID(userID),
		validation.ValidateSkill(skill),
	)
	if err != nil {
		return nil, err
	}

	progress, err := s.store.Progress.ByKey(ctx, userID, skill)
	if errors.Is(err, repository.ErrProgressNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storageError("get progress", err)
	}

	return progress, nil
}

// SessionsFor returns sessions dated within the last sinceDays days
// (today included), most recent first. sinceDays <= 0 uses the default window.
func (s *ProgressService) SessionsFor(ctx context.Context, userID string, sinceDays int) ([]*model.Session, error) {
	err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.Sessions.Since(ctx, userID, s.windowStart(sinceDays))
	if err != nil {
		return nil, storageError("list sessions", err)
	}

	return sessions, nil
}

func (s *ProgressService) AchievementsFor(ctx context.Context, userID string) ([]*model.Achievement, error) {
	return s.achievements.AchievementsFor(ctx, userID)
}

// Summary aggregates the dashboard figures for the user
func (s *ProgressService) Summary(ctx context.Context, userID string, days int) (*model.Summary, error) {
	err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = s.windowDays
	}

	totals, err := s.store.Progress.Totals(ctx, userID)
	if err != nil {
		return nil, storageError("progress totals", err)
	}

	earned, err := s.store.Achievements.Count(ctx, userID)
	if err != nil {
		return nil, storageError("count achievements", err)
	}

	daily, err := s.store.Sessions.DailyMinutes(ctx, userID, s.windowStart(days))
	if err != nil {
		return nil, storageError("daily minutes", err)
	}

	return &model.Summary{
		TotalMinutes:       totals.Minutes,
		SkillsTracked:      totals.Tracked,
		SkillsCompleted:    totals.Completed,
		AchievementsEarned: earned,
		WindowDays:         days,
		Daily:              daily,
	}, nil
}

func (s *ProgressService) WindowDays() int {
	return s.windowDays
}

func (s *ProgressService) windowStart(days int) time.Time {
	if days <= 0 {
		days = s.windowDays
	}
	return startOfDay(s.now().UTC()).AddDate(0, 0, -days)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validateAll returns the first non-nil error
func validateAll(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
