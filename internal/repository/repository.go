package repository

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user and records the insert log row atomically.
	// The new user is its own requester in the log.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIMNumber finds a user by IM number
	FindByIMNumber(imNumber string) (*models.User, error)

	// List retrieves users with pagination
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// UpdateWithChanges saves the user and records one update log row per
	// changed field, all in one transaction. Unchanged fields log nothing.
	UpdateWithChanges(user *models.User, requesterID uint64, changes []audit.FieldChange) error

	// Ping refreshes the user's last_seen timestamp. Not change-logged.
	Ping(id uint64) error
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create creates a new account and records the insert log row atomically
	Create(account *models.Account, requesterID uint64) error

	// FindByID finds an account by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Account, error)

	// FindByName finds an account by its unique name
	FindByName(name string) (*models.Account, error)

	// ListByOwner retrieves accounts owned by a user with pagination
	ListByOwner(ownerID uint64, params utils.PaginationParams) ([]models.Account, int64, error)

	// List retrieves all accounts with pagination
	List(params utils.PaginationParams) ([]models.Account, int64, error)

	// UpdateWithChanges saves the account and records one update log row per
	// changed field, all in one transaction
	UpdateWithChanges(account *models.Account, requesterID uint64, changes []audit.FieldChange) error
}

// TransitionFunc validates and mutates a mission that is held under a row
// lock. It returns the field changes to record; any error aborts the
// transaction and leaves mission and log untouched.
type TransitionFunc func(mission *models.Mission) ([]audit.FieldChange, error)

// MissionFilter holds filtering options for listing missions
type MissionFilter struct {
	PublisherID *uint64
	Galaxy      *string
	Status      *models.MissionStatus
	RunnerID    *uint64
	Page        int
	PageSize    int
}

// MissionRepository defines the interface for mission data access
type MissionRepository interface {
	// Create creates a new mission and records the insert log row atomically
	Create(mission *models.Mission, requesterID uint64) error

	// FindByID finds a mission by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Mission, error)

	// List retrieves missions with filtering and pagination
	List(filter MissionFilter) ([]models.Mission, int64, error)

	// CountPublishedDuplicates counts published missions from the publisher
	// with an identical (title, galaxy, created) tuple
	CountPublishedDuplicates(publisherID uint64, title, galaxy string, created time.Time) (int64, error)

	// Transition locks the mission row, applies the state-machine callback,
	// and commits the mutation together with its update log rows
	Transition(id, requesterID uint64, apply TransitionFunc) error

	// TransitionAll applies the callback to every listed mission inside one
	// transaction; the first failure rolls back the whole batch
	TransitionAll(ids []uint64, requesterID uint64, apply TransitionFunc) error
}

// ChangeLogRepository defines the interface for reading the audit trail.
// Rows are only ever written as part of entity mutations; there is no
// update or delete surface.
type ChangeLogRepository interface {
	// Recent retrieves the most recent rows, newest first
	Recent(limit int) ([]models.ChangeLog, error)

	// ListByObject retrieves all rows for one entity, newest first
	ListByObject(objectType string, objectID uint64) ([]models.ChangeLog, error)
}
