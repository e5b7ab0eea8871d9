package repository

import (
	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormReminderRepository is a GORM implementation of ReminderRepository
type GormReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &GormReminderRepository{db: db}
}

func (r *GormReminderRepository) Create(reminder *models.Reminder) error {
	return r.db.Create(reminder).Error
}

func (r *GormReminderRepository) FindByID(id uint64) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.First(&reminder, id).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *GormReminderRepository) ListByUser(userID uint64) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("remind_at ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *GormReminderRepository) Update(reminder *models.Reminder) error {
	return r.db.Save(reminder).Error
}

func (r *GormReminderRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Reminder{}, id).Error
}

// Snooze dismisses the original and creates the successor atomically, so a
// crash cannot leave both reminders active.
func (r *GormReminderRepository) Snooze(original *models.Reminder, successor *models.Reminder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reminder{}).
			Where("id = ?", original.ID).
			Update("is_dismissed", true).Error; err != nil {
			return err
		}

		return tx.Create(successor).Error
	})
}
