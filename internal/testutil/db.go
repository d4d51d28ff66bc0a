// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"ride_hailing/internal/config"
	"ride_hailing/internal/roles"
)

// NewDB opens a fresh in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection to :memory: would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewEnv returns a migrated database together with its seeded role registry.
func NewEnv(t *testing.T) (*gorm.DB, *roles.Registry) {
	t.Helper()

	db := NewDB(t)
	reg, err := roles.Load(context.Background(), db)
	if err != nil {
		t.Fatalf("load roles: %v", err)
	}
	return db, reg
}
