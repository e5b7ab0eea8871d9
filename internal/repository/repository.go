package repository

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID       uint64
	Status       *models.TaskStatus
	ParentTaskID *uint64
	RootsOnly    bool
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// CreateWithMapping creates a task and its sync mapping in one
	// transaction so a crash cannot leave an unmapped import behind.
	CreateWithMapping(task *models.Task, mapping *models.SyncMapping) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves a flat, owner-scoped task list ordered by sibling
	// order, then due date, then creation time.
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateOrder persists a new sibling order for one task. Siblings are
	// not renumbered; callers reload to re-derive consistent ordering.
	UpdateOrder(id uint64, order int) error

	// Delete permanently removes a task and any sync mappings bound to it
	Delete(id uint64) error

	// FindCompletedSince returns tasks completed after the cutoff that
	// carry a sync mapping to the given external system.
	FindCompletedSince(userID uint64, since time.Time, system models.ExternalSystem) ([]models.Task, error)
}

// MoodRepository defines the interface for mood entry data access
type MoodRepository interface {
	Create(entry *models.MoodEntry) error
	FindByID(id uint64) (*models.MoodEntry, error)
	ListByUser(userID uint64, since *time.Time) ([]models.MoodEntry, error)
	Update(entry *models.MoodEntry) error
	Delete(id uint64) error
}

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	Create(reminder *models.Reminder) error
	FindByID(id uint64) (*models.Reminder, error)
	ListByUser(userID uint64) ([]models.Reminder, error)
	Update(reminder *models.Reminder) error
	Delete(id uint64) error

	// Snooze dismisses the original reminder and creates its successor in
	// one transaction.
	Snooze(original *models.Reminder, successor *models.Reminder) error
}

// FocusSessionRepository defines the interface for focus session data access
type FocusSessionRepository interface {
	Create(session *models.FocusSession) error
	FindByID(id uint64) (*models.FocusSession, error)
	ListByUser(userID uint64) ([]models.FocusSession, error)
	Update(session *models.FocusSession) error
}

// BrainDumpRepository defines the interface for brain dump data access
type BrainDumpRepository interface {
	Create(dump *models.BrainDump) error
	FindByID(id uint64) (*models.BrainDump, error)
	ListByUser(userID uint64, unprocessedOnly bool) ([]models.BrainDump, error)
	Update(dump *models.BrainDump) error
	Delete(id uint64) error
}

// SyncRepository defines the interface for sync mapping and integration access
type SyncRepository interface {
	// FindMapping looks up the idempotency record for one external item
	FindMapping(userID uint64, externalID string, system models.ExternalSystem) (*models.SyncMapping, error)
	CreateMapping(mapping *models.SyncMapping) error
	FindMappingByTask(taskID uint64, system models.ExternalSystem) (*models.SyncMapping, error)

	// ListIntegrations returns every integration row, deactivated ones
	// included; ListActiveIntegrations is the sync-facing filter.
	ListIntegrations(userID uint64) ([]models.Integration, error)
	ListActiveIntegrations(userID uint64, system *models.ExternalSystem) ([]models.Integration, error)
	ListUsersWithIntegrations() ([]uint64, error)
	FindIntegration(userID uint64, system models.ExternalSystem) (*models.Integration, error)
	SaveIntegration(integration *models.Integration) error
	DeleteIntegration(userID uint64, system models.ExternalSystem) error

	// StampLastSync records the end of a reconciliation run regardless of
	// partial failures.
	StampLastSync(integrationID uint64, at time.Time) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
}

// SettingsRepository defines the interface for user settings access
type SettingsRepository interface {
	FindByUser(userID uint64) (*models.UserSettings, error)
	Save(settings *models.UserSettings) error
}
