package repository

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormSyncRepository is a GORM implementation of SyncRepository
type GormSyncRepository struct {
	db *gorm.DB
}

// NewSyncRepository creates a new SyncRepository
func NewSyncRepository(db *gorm.DB) SyncRepository {
	return &GormSyncRepository{db: db}
}

// FindMapping looks up the idempotency record for one external item
func (r *GormSyncRepository) FindMapping(userID uint64, externalID string, system models.ExternalSystem) (*models.SyncMapping, error) {
	var mapping models.SyncMapping
	if err := r.db.Where("user_id = ? AND external_id = ? AND external_system = ?",
		userID, externalID, system).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *GormSyncRepository) CreateMapping(mapping *models.SyncMapping) error {
	return r.db.Create(mapping).Error
}

// FindMappingByTask returns a task's mapping for a system, if any. One local
// task has at most one mapping per external system.
func (r *GormSyncRepository) FindMappingByTask(taskID uint64, system models.ExternalSystem) (*models.SyncMapping, error) {
	var mapping models.SyncMapping
	if err := r.db.Where("task_id = ? AND external_system = ?", taskID, system).
		First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// ListIntegrations returns all of a user's integrations, active or not.
func (r *GormSyncRepository) ListIntegrations(userID uint64) ([]models.Integration, error) {
	var integrations []models.Integration
	if err := r.db.Scopes(database.OwnedBy(userID)).Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *GormSyncRepository) ListActiveIntegrations(userID uint64, system *models.ExternalSystem) ([]models.Integration, error) {
	var integrations []models.Integration
	query := r.db.Where("user_id = ? AND is_active = ?", userID, true)
	if system != nil {
		query = query.Where("integration_type = ?", *system)
	}
	if err := query.Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *GormSyncRepository) FindIntegration(userID uint64, system models.ExternalSystem) (*models.Integration, error) {
	var integration models.Integration
	if err := r.db.Where("user_id = ? AND integration_type = ?", userID, system).
		First(&integration).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *GormSyncRepository) SaveIntegration(integration *models.Integration) error {
	return r.db.Save(integration).Error
}

func (r *GormSyncRepository) DeleteIntegration(userID uint64, system models.ExternalSystem) error {
	return r.db.Where("user_id = ? AND integration_type = ?", userID, system).
		Delete(&models.Integration{}).Error
}

// ListUsersWithIntegrations returns the distinct users that have at least
// one active integration. Used by the background reconciliation job.
func (r *GormSyncRepository) ListUsersWithIntegrations() ([]uint64, error) {
	var userIDs []uint64
	if err := r.db.Model(&models.Integration{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// StampLastSync records the end of a reconciliation run
func (r *GormSyncRepository) StampLastSync(integrationID uint64, at time.Time) error {
	return r.db.Model(&models.Integration{}).
		Where("id = ?", integrationID).
		Update("last_sync_at", at).Error
}
