package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aits/internal/cache"
	"aits/internal/db"
)

// OpenTestDB opens a private in-memory SQLite database and applies migrations.
// The database is closed via t.Cleanup.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gormDB
}

// NewTestCache starts an in-process redis and returns a client bound to it.
func NewTestCache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := cache.New(srv.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}
