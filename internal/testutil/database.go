// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"intabyu/internal/models"
	"intabyu/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// dbCounter gives every test its own in-memory database.
var dbCounter atomic.Int64

// SetupTestDB creates an isolated in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:intabyu_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// SetupAudioStore creates an audio store rooted in a per-test temp directory.
func SetupAudioStore(t *testing.T) *storage.AudioStore {
	t.Helper()

	store, err := storage.NewAudioStore(filepath.Join(t.TempDir(), "audio-uploads"), "/audio-uploads")
	if err != nil {
		t.Fatalf("failed to create audio store: %v", err)
	}
	return store
}

// QueryCounter counts SQL statements executed through a gorm.DB.
type QueryCounter struct {
	n atomic.Int64
}

// Count returns the number of statements seen so far.
func (q *QueryCounter) Count() int64 { return q.n.Load() }

// Reset zeroes the counter.
func (q *QueryCounter) Reset() { q.n.Store(0) }

// CountQueries registers callbacks on db that count every query, create,
// update, delete and raw statement.
func CountQueries(t *testing.T, db *gorm.DB) *QueryCounter {
	t.Helper()

	counter := &QueryCounter{}
	inc := func(*gorm.DB) { counter.n.Add(1) }
	name := fmt.Sprintf("testutil:count_%d", dbCounter.Add(1))

	cb := db.Callback()
	regs := []error{
		cb.Query().After("gorm:query").Register(name, inc),
		cb.Create().After("gorm:create").Register(name, inc),
		cb.Update().After("gorm:update").Register(name, inc),
		cb.Delete().After("gorm:delete").Register(name, inc),
		cb.Row().After("gorm:row").Register(name, inc),
		cb.Raw().After("gorm:raw").Register(name, inc),
	}
	for _, err := range regs {
		if err != nil {
			t.Fatalf("failed to register query counter: %v", err)
		}
	}
	return counter
}
