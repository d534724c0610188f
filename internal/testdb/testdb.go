// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/marketplace/pkg/db"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), pkgdb.Config())
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every new connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)

	if err := pkgdb.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
