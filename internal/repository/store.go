package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store groups the ledger repositories over one database handle. Inside
// InTx every repository shares the same transaction.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext

	Sessions     SessionRepository
	Progress     ProgressRepository
	Achievements AchievementRepository
}

func NewStore(db *sqlx.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sqlx.DB, q sqlx.ExtContext) *Store {
	return &Store{
		db:           db,
		q:            q,
		Sessions:     NewSessionRepository(q),
		Progress:     NewProgressRepository(q),
		Achievements: NewAchievementRepository(q),
	}
}

// InTx runs fn in a transaction. The transaction commits only if fn returns
// nil. Calling InTx on a Store that is already transactional reuses it.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, ok := s.q.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = fn(newStore(s.db, tx))
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
