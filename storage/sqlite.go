package storage

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// MemoryDSN is a private in-process SQLite database with foreign keys enforced.
// Times are written in SQLite's own format so they compare correctly as text.
const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"

// OpenSQLite opens a pure-Go SQLite database through gorm. Every statement
// shares one connection: an in-memory database lives and dies with it.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	return db, nil
}

// NewMemory returns a migrated Store over a fresh in-memory SQLite database.
// It backs STORAGE_DRIVER=memory and the tests; data is lost on Close.
func NewMemory() (*Store, error) {
	db, err := OpenSQLite(MemoryDSN)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return New(db), nil
}
