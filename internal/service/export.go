package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/skilledger/internal/model"
	"github.com/templui/skilledger/internal/repository"
	"github.com/templui/skilledger/internal/storage"
	"github.com/templui/skilledger/internal/validation"
)

var (
	ErrExportDisabled = errors.New("export archive is not configured")
)

// ExportArchive describes a snapshot written to object storage
type ExportArchive struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ExportService struct {
	store   *repository.Store
	storage storage.Storage
	now     func() time.Time
}

// NewExportService accepts a nil storage; Archive then returns ErrExportDisabled.
func NewExportService(store *repository.Store, storage storage.Storage) *ExportService {
	return &ExportService{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

func (s *ExportService) Enabled() bool {
	return s.storage != nil
}

// Snapshot reads everything the ledger holds for the user in one transaction
// so the three lists agree with each other.
func (s *ExportService) Snapshot(ctx context.Context, userID string) (*model.Snapshot, error) {
	err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	snapshot := &model.Snapshot{
		UserID:      userID,
		GeneratedAt: s.now().UTC(),
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error

		snapshot.Progress, err = tx.Progress.ForUser(ctx, userID)
		if err != nil {
			return err
		}

		snapshot.Sessions, err = tx.Sessions.All(ctx, userID)
		if err != nil {
			return err
		}

		snapshot.Achievements, err = tx.Achievements.ForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, storageError("snapshot", err)
	}

	return snapshot, nil
}

// Archive uploads a snapshot as JSON and returns a presigned download link
func (s *ExportService) Archive(ctx context.Context, userID string) (*ExportArchive, error) {
	if s.storage == nil {
		return nil, ErrExportDisabled
	}

	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := ExportKey(userID, snapshot.GeneratedAt)

	err = s.storage.Save(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		slog.Error("failed to archive export", "error", err, "user_id", userID, "key", key)
		return nil, storageError("archive export", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		slog.Error("failed to presign export", "error", err, "user_id", userID, "key", key)
		return nil, storageError("presign export", err)
	}

	slog.Info("export archived", "user_id", userID, "key", key)

	return &ExportArchive{
		Key:         key,
		URL:         url,
		GeneratedAt: snapshot.GeneratedAt,
	}, nil
}

func ExportKey(userID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, at.UTC().Format("20060102T150405Z"))
}
