// Package notify publishes ledger events to interested parties outside the
// process, such as a mailer or a badge renderer.
package notify

import (
	"context"
	"time"

	"github.com/templui/skilledger/internal/model"
)

const (
	EventAchievementGranted = "achievement.granted"
)

type Event struct {
	Type        string             `json:"type"`
	UserID      string             `json:"user_id"`
	Skill       string             `json:"skill"`
	Achievement *model.Achievement `json:"achievement,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }
