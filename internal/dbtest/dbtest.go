// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/skilledger/internal/db"
)

// Open returns a migrated SQLite database in a temp directory. It is closed
// automatically when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	database, err := db.Init(db.DriverSQLite, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	err = db.RunMigrations(database.DB, db.DriverSQLite)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return database
}
