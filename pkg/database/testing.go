package database

import (
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/pkg/config"
)

// OpenTest returns a migrated in-memory sqlite database closed with the test.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()
	log := zerolog.Nop()
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", ConnectRetries: 1}, &log)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}
