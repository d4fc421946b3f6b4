package db

import (
	"github.com/tasktrail/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// AutoMigrate all models
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Task{},
		&domain.HistoryRecord{},
	)
	if err != nil {
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		return err
	}

	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	// Composite index backing the ongoing/completed partition queries
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_completed
		ON tasks (owner_id, completed)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	// Index backing the owner-scoped, timestamp-ordered history query
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_records_owner_timestamp
		ON history_records (owner_id, timestamp DESC)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	return nil
}
