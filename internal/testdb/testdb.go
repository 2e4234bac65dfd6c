// Package testdb stands up an in-memory sqlite database behind the
// global db.DB for package tests. sqlite supports the partial unique
// indexes and foreign-key cascades the models rely on, so the dedup
// invariants are exercised against a real constraint, not a mock.
package testdb

import (
	"testing"

	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Setup(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Every connection to :memory: is a distinct database; pin the pool
	// to one connection so all queries see the same one.
	sqlDB, err := gdb.DB()

	if err != nil {
		t.Fatalf("failed to access test database pool: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.Membership{},
		&models.Project{},
		&models.WorkItem{},
		&models.Notification{},
	)

	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	t.Cleanup(func() {
		sqlDB.Close()
	})
}
