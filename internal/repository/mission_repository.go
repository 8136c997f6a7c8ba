package repository

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMissionRepository is a GORM implementation of MissionRepository
type GormMissionRepository struct {
	db *gorm.DB
}

// NewMissionRepository creates a new MissionRepository
func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &GormMissionRepository{db: db}
}

// Create creates the mission and its insert log row atomically
func (r *GormMissionRepository) Create(mission *models.Mission, requesterID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(mission).Error; err != nil {
			return err
		}
		entry := audit.InsertEntry(models.ObjectTypeMission, mission.ID, requesterID)
		return tx.Create(&entry).Error
	})
}

// FindByID finds a mission by ID with optional preloading
func (r *GormMissionRepository) FindByID(id uint64, preload ...string) (*models.Mission, error) {
	var mission models.Mission
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&mission, id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

// List retrieves missions with filtering and pagination
func (r *GormMissionRepository) List(filter MissionFilter) ([]models.Mission, int64, error) {
	var missions []models.Mission

	query := r.db.Model(&models.Mission{})
	if filter.PublisherID != nil {
		query = query.Where("publisher_id = ?", *filter.PublisherID)
	}
	if filter.Galaxy != nil {
		query = query.Where("galaxy = ?", *filter.Galaxy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RunnerID != nil {
		query = query.Where("runner_id = ?", *filter.RunnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Publisher").Find(&missions).Error; err != nil {
		return nil, 0, err
	}

	return missions, total, nil
}

// CountPublishedDuplicates counts published missions from the publisher with
// an identical (title, galaxy, created) tuple
func (r *GormMissionRepository) CountPublishedDuplicates(publisherID uint64, title, galaxy string, created time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Mission{}).
		Where("publisher_id = ? AND title = ? AND galaxy = ? AND created = ? AND status = ?",
			publisherID, title, galaxy, created, models.StatusPublished).
		Count(&count).Error
	return count, err
}

// Transition locks the mission row, applies the callback, and commits the
// mutation with its update log rows as one unit
func (r *GormMissionRepository) Transition(id, requesterID uint64, apply TransitionFunc) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return transitionLocked(tx, id, requesterID, apply)
	})
}

// TransitionAll applies the callback to each mission inside one transaction;
// any failure rolls back every mission in the batch
func (r *GormMissionRepository) TransitionAll(ids []uint64, requesterID uint64, apply TransitionFunc) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := transitionLocked(tx, id, requesterID, apply); err != nil {
				return err
			}
		}
		return nil
	})
}

func transitionLocked(tx *gorm.DB, id, requesterID uint64, apply TransitionFunc) error {
	var mission models.Mission

	query := tx.Preload("Publisher")
	// SQLite has no SELECT ... FOR UPDATE; its single-writer model already
	// serializes the transaction.
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&mission, id).Error; err != nil {
		return err
	}

	changes, err := apply(&mission)
	if err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Save(&mission).Error; err != nil {
		return err
	}

	entries := audit.UpdateEntries(models.ObjectTypeMission, mission.ID, requesterID, changes)
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}
