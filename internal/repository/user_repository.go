package repository

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/database"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a user and its insert log row atomically. The log row's
// requester is the user itself since registration has no other actor.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		entry := audit.InsertEntry(models.ObjectTypeUser, user.ID, user.ID)
		return tx.Create(&entry).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIMNumber finds a user by IM number
func (r *GormUserRepository) FindByIMNumber(imNumber string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("im_number = ?", imNumber).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with pagination
func (r *GormUserRepository) List(params utils.PaginationParams) ([]models.User, int64, error) {
	var users []models.User

	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Order("id ASC").
		Scopes(database.Paginate(params)).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateWithChanges saves the user and its update log rows in one transaction
func (r *GormUserRepository) UpdateWithChanges(user *models.User, requesterID uint64, changes []audit.FieldChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		entries := audit.UpdateEntries(models.ObjectTypeUser, user.ID, requesterID, changes)
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// Ping refreshes last_seen without touching the change log
func (r *GormUserRepository) Ping(id uint64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("last_seen", time.Now()).Error
}
