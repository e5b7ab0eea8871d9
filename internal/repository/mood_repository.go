package repository

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormMoodRepository is a GORM implementation of MoodRepository
type GormMoodRepository struct {
	db *gorm.DB
}

// NewMoodRepository creates a new MoodRepository
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &GormMoodRepository{db: db}
}

func (r *GormMoodRepository) Create(entry *models.MoodEntry) error {
	return r.db.Create(entry).Error
}

func (r *GormMoodRepository) FindByID(id uint64) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns entries newest first, optionally bounded to a window.
func (r *GormMoodRepository) ListByUser(userID uint64, since *time.Time) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	query := r.db.Scopes(database.OwnedBy(userID))
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormMoodRepository) Update(entry *models.MoodEntry) error {
	return r.db.Save(entry).Error
}

func (r *GormMoodRepository) Delete(id uint64) error {
	return r.db.Delete(&models.MoodEntry{}, id).Error
}
