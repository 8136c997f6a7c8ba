package services

import (
	"errors"
	"fmt"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/constants"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/policy"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"github.com/stevew1007/mission-runner-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotOwner           = errors.New("account does not belong to the user")
	ErrAccountNameTaken   = errors.New("account name already exists")
	ErrInvalidAccountName = errors.New("account name must be 3-64 characters")
)

// AccountService handles account business logic.
type AccountService struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo repository.AccountRepository, userRepo repository.UserRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

// RegisterInput represents input for registering an account.
type RegisterInput struct {
	Name    string
	LPPoint int64
}

// Register creates an account owned by the acting user. Accounts start
// deactivated; an admin activates them before missions can be published.
func (s *AccountService) Register(actorID uint64, input RegisterInput) (*models.Account, error) {
	if len(input.Name) < constants.MinAccountNameLength || len(input.Name) > constants.MaxAccountNameLength {
		return nil, ErrInvalidAccountName
	}

	if _, err := s.accountRepo.FindByName(input.Name); err == nil {
		return nil, ErrAccountNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check account name: %w", err)
	}

	account := &models.Account{
		Name:    input.Name,
		LPPoint: input.LPPoint,
		OwnerID: actorID,
	}

	if err := s.accountRepo.Create(account, actorID); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Get retrieves an account by id. Non-admin callers only see their own
// accounts.
func (s *AccountService) Get(accountID, actorID uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !actor.IsAdmin() && !policy.CanEditAccount(account, actor) {
		return nil, ErrNotOwner
	}

	return account, nil
}

// GetByName retrieves an account by its unique name with the same ownership
// gate as Get.
func (s *AccountService) GetByName(name string, actorID uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !actor.IsAdmin() && !policy.CanEditAccount(account, actor) {
		return nil, ErrNotOwner
	}

	return account, nil
}

// ListOwn retrieves the acting user's accounts.
func (s *AccountService) ListOwn(actorID uint64, params utils.PaginationParams) ([]models.Account, int64, error) {
	return s.accountRepo.ListByOwner(actorID, params)
}

// UpdateAccountInput is the patch an owner may apply to an account. Nil
// fields are left untouched.
type UpdateAccountInput struct {
	Name    *string
	LPPoint *int64
}

// Update applies the patch to an account the actor owns. Only fields that
// actually change are logged; a patch equal to the current state writes
// nothing.
func (s *AccountService) Update(accountID, actorID uint64, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanEditAccount(account, actor) {
		return nil, ErrNotOwner
	}

	changes, err := s.applyAccountPatch(account, input)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateWithChanges(account, actorID, changes); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// applyAccountPatch mutates the account in memory and returns the field
// changes to record. Shared by the owner and admin update paths.
func (s *AccountService) applyAccountPatch(account *models.Account, input UpdateAccountInput) ([]audit.FieldChange, error) {
	var changes []audit.FieldChange

	if input.Name != nil {
		if len(*input.Name) < constants.MinAccountNameLength || len(*input.Name) > constants.MaxAccountNameLength {
			return nil, ErrInvalidAccountName
		}
		if *input.Name != account.Name {
			if _, err := s.accountRepo.FindByName(*input.Name); err == nil {
				return nil, ErrAccountNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check account name: %w", err)
			}
		}
		changes = append(changes, audit.FieldChange{Name: "name", Old: account.Name, New: *input.Name})
		account.Name = *input.Name
	}
	if input.LPPoint != nil {
		changes = append(changes, audit.FieldChange{Name: "lp_point", Old: account.LPPoint, New: *input.LPPoint})
		account.LPPoint = *input.LPPoint
	}

	return changes, nil
}
