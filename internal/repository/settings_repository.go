package repository

import (
	"errors"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormSettingsRepository is a GORM implementation of SettingsRepository
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByUser returns the user's settings row, creating defaults on first use.
func (r *GormSettingsRepository) FindByUser(userID uint64) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID, Theme: "system", NotificationsEnabled: true}
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GormSettingsRepository) Save(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}
