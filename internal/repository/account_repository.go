package repository

import (
	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/database"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/utils"
	"gorm.io/gorm"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates the account and its insert log row atomically
func (r *GormAccountRepository) Create(account *models.Account, requesterID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		entry := audit.InsertEntry(models.ObjectTypeAccount, account.ID, requesterID)
		return tx.Create(&entry).Error
	})
}

// FindByID finds an account by ID with optional preloading
func (r *GormAccountRepository) FindByID(id uint64, preload ...string) (*models.Account, error) {
	var account models.Account
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByName finds an account by its unique name
func (r *GormAccountRepository) FindByName(name string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("name = ?", name).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByOwner retrieves accounts owned by a user with pagination
func (r *GormAccountRepository) ListByOwner(ownerID uint64, params utils.PaginationParams) ([]models.Account, int64, error) {
	return r.list(r.db.Model(&models.Account{}).Where("owner_id = ?", ownerID), params)
}

// List retrieves all accounts with pagination
func (r *GormAccountRepository) List(params utils.PaginationParams) ([]models.Account, int64, error) {
	return r.list(r.db.Model(&models.Account{}), params)
}

func (r *GormAccountRepository) list(query *gorm.DB, params utils.PaginationParams) ([]models.Account, int64, error) {
	var accounts []models.Account

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id ASC").
		Scopes(database.Paginate(params)).
		Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateWithChanges saves the account and its update log rows in one transaction
func (r *GormAccountRepository) UpdateWithChanges(account *models.Account, requesterID uint64, changes []audit.FieldChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		entries := audit.UpdateEntries(models.ObjectTypeAccount, account.ID, requesterID, changes)
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}
