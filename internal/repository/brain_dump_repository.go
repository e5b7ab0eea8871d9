package repository

import (
	"github.com/mindmesh/mindmesh-api/internal/database"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"gorm.io/gorm"
)

// GormBrainDumpRepository is a GORM implementation of BrainDumpRepository
type GormBrainDumpRepository struct {
	db *gorm.DB
}

// NewBrainDumpRepository creates a new BrainDumpRepository
func NewBrainDumpRepository(db *gorm.DB) BrainDumpRepository {
	return &GormBrainDumpRepository{db: db}
}

func (r *GormBrainDumpRepository) Create(dump *models.BrainDump) error {
	return r.db.Create(dump).Error
}

func (r *GormBrainDumpRepository) FindByID(id uint64) (*models.BrainDump, error) {
	var dump models.BrainDump
	if err := r.db.First(&dump, id).Error; err != nil {
		return nil, err
	}
	return &dump, nil
}

func (r *GormBrainDumpRepository) ListByUser(userID uint64, unprocessedOnly bool) ([]models.BrainDump, error) {
	var dumps []models.BrainDump
	query := r.db.Scopes(database.OwnedBy(userID))
	if unprocessedOnly {
		query = query.Where("processed = ?", false)
	}
	if err := query.Order("created_at DESC").Find(&dumps).Error; err != nil {
		return nil, err
	}
	return dumps, nil
}

func (r *GormBrainDumpRepository) Update(dump *models.BrainDump) error {
	return r.db.Save(dump).Error
}

func (r *GormBrainDumpRepository) Delete(id uint64) error {
	return r.db.Delete(&models.BrainDump{}, id).Error
}
