package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Connect opens the database named by dsn. postgres:// and postgresql:// URLs
// select PostgreSQL; anything else is treated as a SQLite file path.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if isPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Migrate creates the aggregate tables and the single version row.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	gdb = gdb.WithContext(ctx)

	// Tables
	if err := gdb.AutoMigrate(
		&participantRow{},
		&submissionRow{},
		&usedTopicsRow{},
		&stateMeta{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_submissions_owner_created on submissions(owner, created_at desc);`,
		`create index if not exists idx_submissions_status_created on submissions(status, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	if err := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&stateMeta{ID: stateMetaID}).Error; err != nil {
		return fmt.Errorf("seed state version: %w", err)
	}

	return nil
}
