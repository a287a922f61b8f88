package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/dbtest"
	"github.com/templui/skilledger/internal/metrics"
	"github.com/templui/skilledger/internal/notify"
	"github.com/templui/skilledger/internal/repository"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Event(nil), p.events...)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://storage.test/" + key, nil
}

type fixture struct {
	db           *sqlx.DB
	store        *repository.Store
	ledger       *ProgressService
	achievements *AchievementService
	publisher    *recordingPublisher
	metrics      *metrics.Metrics
	clock        *clock
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	store := repository.NewStore(db)
	publisher := &recordingPublisher{}
	m := metrics.New()
	c := &clock{now: testNow}

	achievements := NewAchievementService(store, publisher, m)
	achievements.now = c.Now

	ledger := NewProgressService(store, achievements, m, DefaultWindowDays)
	ledger.now = c.Now

	return &fixture{
		db:           db,
		store:        store,
		ledger:       ledger,
		achievements: achievements,
		publisher:    publisher,
		metrics:      m,
		clock:        c,
	}
}
