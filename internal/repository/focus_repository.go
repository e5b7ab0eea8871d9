package repository

import (
	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormFocusSessionRepository is a GORM implementation of FocusSessionRepository
type GormFocusSessionRepository struct {
	db *gorm.DB
}

// NewFocusSessionRepository creates a new FocusSessionRepository
func NewFocusSessionRepository(db *gorm.DB) FocusSessionRepository {
	return &GormFocusSessionRepository{db: db}
}

func (r *GormFocusSessionRepository) Create(session *models.FocusSession) error {
	return r.db.Create(session).Error
}

func (r *GormFocusSessionRepository) FindByID(id uint64) (*models.FocusSession, error) {
	var session models.FocusSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormFocusSessionRepository) ListByUser(userID uint64) ([]models.FocusSession, error) {
	var sessions []models.FocusSession
	if err := r.db.Scopes(database.OwnedBy(userID)).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *GormFocusSessionRepository) Update(session *models.FocusSession) error {
	return r.db.Save(session).Error
}
