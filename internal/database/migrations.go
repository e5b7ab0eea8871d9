package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and tree assembly
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"tasks", "idx_tasks_parent_task_id", "parent_task_id"},
		{"tasks", "idx_tasks_completed_at", "completed_at"},

		// Mood entries for rolling-window queries
		{"mood_entries", "idx_mood_entries_user_created", "user_id, created_at"},

		// Reminder activity queries
		{"reminders", "idx_reminders_user_remind_at", "user_id, remind_at"},

		// Sync mapping lookups during export
		{"sync_mappings", "idx_sync_mappings_task_id", "task_id"},

		// Integration lookups per sync run
		{"integrations", "idx_integrations_user_active", "user_id, is_active"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
