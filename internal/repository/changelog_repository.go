package repository

import (
	"github.com/stevew1007/mission-runner-api/internal/models"
	"gorm.io/gorm"
)

// GormChangeLogRepository is a GORM implementation of ChangeLogRepository
type GormChangeLogRepository struct {
	db *gorm.DB
}

// NewChangeLogRepository creates a new ChangeLogRepository
func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &GormChangeLogRepository{db: db}
}

// Recent retrieves the most recent rows, newest first
func (r *GormChangeLogRepository) Recent(limit int) ([]models.ChangeLog, error) {
	var entries []models.ChangeLog
	if err := r.db.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByObject retrieves all rows for one entity, newest first
func (r *GormChangeLogRepository) ListByObject(objectType string, objectID uint64) ([]models.ChangeLog, error) {
	var entries []models.ChangeLog
	if err := r.db.Where("object_type = ? AND object_id = ?", objectType, objectID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
