package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/skilledger/internal/dbtest"
	"github.com/templui/skilledger/internal/model"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func newSession(userID, skill string, date time.Time, minutes int) *model.Session {
	return &model.Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		SkillName:   skill,
		SessionDate: date,
		Minutes:     minutes,
		CreatedAt:   date.Add(9 * time.Hour),
	}
}

func minutesProgress(userID, skill string, minutes int, at time.Time) *model.Progress {
	return &model.Progress{
		ID:           uuid.New().String(),
		UserID:       userID,
		SkillName:    skill,
		MinutesSpent: minutes,
		LastActivity: at,
		CreatedAt:    at,
	}
}

func TestStoreInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.Open(t))
	boom := errors.New("boom")

	err := store.InTx(ctx, func(tx *Store) error {
		require.NoError(t, tx.Sessions.Create(ctx, newSession("u1", "Python", day, 30)))
		require.NoError(t, tx.Progress.AddMinutes(ctx, minutesProgress("u1", "Python", 30, day)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	sessions, err := store.Sessions.All(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = store.Progress.ByKey(ctx, "u1", "Python")
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestStoreInTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.Open(t))

	err := store.InTx(ctx, func(tx *Store) error {
		err := tx.Sessions.Create(ctx, newSession("u1", "Go", day, 45))
		if err != nil {
			return err
		}
		// nested calls reuse the outer transaction
		return tx.InTx(ctx, func(inner *Store) error {
			return inner.Progress.AddMinutes(ctx, minutesProgress("u1", "Go", 45, day))
		})
	})
	require.NoError(t, err)

	progress, err := store.Progress.ByKey(ctx, "u1", "Go")
	require.NoError(t, err)
	assert.Equal(t, 45, progress.MinutesSpent)
}
