package repository

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// CreateWithMapping creates a task and its sync mapping atomically
func (r *GormTaskRepository) CreateWithMapping(task *models.Task, mapping *models.SyncMapping) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		mapping.TaskID = task.ID
		mapping.UserID = task.UserID

		return tx.Create(mapping).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a flat, owner-scoped task list. The ordering feeds the
// hierarchy builder: sibling order first, then due date, then creation time,
// so ties in task_order stay stable downstream.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.RootsOnly {
		query = query.Where("tasks.parent_task_id IS NULL")
	} else if filter.ParentTaskID != nil {
		query = query.Where("tasks.parent_task_id = ?", *filter.ParentTaskID)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.task_order ASC, CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateOrder persists a new sibling order for one task
func (r *GormTaskRepository) UpdateOrder(id uint64, order int) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).
		Update("task_order", order).Error
}

// Delete permanently removes a task and its sync mappings. Tasks are never
// soft-deleted.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.SyncMapping{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Task{}, id).Error
	})
}

// FindCompletedSince returns recently completed tasks that have a mapping to
// the given external system. Used by the sync export phase.
func (r *GormTaskRepository) FindCompletedSince(userID uint64, since time.Time, system models.ExternalSystem) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Joins("JOIN sync_mappings ON sync_mappings.task_id = tasks.id").
		Where("tasks.user_id = ?", userID).
		Where("tasks.status = ?", models.TaskStatusCompleted).
		Where("tasks.completed_at >= ?", since).
		Where("sync_mappings.external_system = ?", system).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
