// Package gormdbtest открывает временную sqlite-базу с мигрированной схемой для тестов.
package gormdbtest

import (
	"path/filepath"
	"testing"

	"master_crm/internal/config"
	"master_crm/internal/repository/gormdb"
	"master_crm/pkg/db"

	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.NewGormConnection(config.DBConfig{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gormdb.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func NewRepository(t testing.TB) *gormdb.IdentityRepository {
	t.Helper()
	return gormdb.NewIdentityRepository(Open(t))
}
