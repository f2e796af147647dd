package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/queuectl/queuectl/internal/store"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // important for in-memory sqlite
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	ctx := context.Background()
	if err := store.InitDB(ctx, db); err != nil {
		t.Fatal(err)
	}
	return db
}
