// Package testdb opens a migrated in-memory SQLite database for repository tests.
package testdb

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"uni-hris/internal/shared/migrations"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a fresh database per test. The pool holds a single
// connection, which is how the app runs on SQLite as well.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrations.Up(context.Background(), sqlDB, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
