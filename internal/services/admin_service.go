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
	ErrNotAdmin       = errors.New("administrator role required")
	ErrInvalidRole    = errors.New("role does not exist")
	ErrRoleUnchanged  = errors.New("user already has the requested role")
	ErrAlreadyInState = errors.New("entity is already in the requested activation state")
)

// AdminService handles operations reserved for administrators.
type AdminService struct {
	userRepo      repository.UserRepository
	accountRepo   repository.AccountRepository
	changeLogRepo repository.ChangeLogRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, accountRepo repository.AccountRepository, changeLogRepo repository.ChangeLogRepository) *AdminService {
	return &AdminService{
		userRepo:      userRepo,
		accountRepo:   accountRepo,
		changeLogRepo: changeLogRepo,
	}
}

func (s *AdminService) requireAdmin(actorID uint64) (*models.User, error) {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !policy.CanToggleActivation(actor) {
		return nil, ErrNotAdmin
	}
	return actor, nil
}

// ListUsers retrieves all users.
func (s *AdminService) ListUsers(actorID uint64, params utils.PaginationParams) ([]models.User, int64, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(params)
}

// ListAccounts retrieves all accounts regardless of owner.
func (s *AdminService) ListAccounts(actorID uint64, params utils.PaginationParams) ([]models.Account, int64, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, 0, err
	}
	return s.accountRepo.List(params)
}

// GetAccount retrieves any account by id, not limited by ownership.
func (s *AdminService) GetAccount(accountID, actorID uint64) (*models.Account, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindByID(accountID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// SetAccountActivation flips an account's activation flag. Setting the flag
// to its current value is a conflict, not a silent no-op.
func (s *AdminService) SetAccountActivation(accountID, actorID uint64, activated bool) error {
	if _, err := s.requireAdmin(actorID); err != nil {
		return err
	}

	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to find account: %w", err)
	}

	if account.Activated == activated {
		return ErrAlreadyInState
	}

	changes := []audit.FieldChange{
		{Name: "activated", Old: account.Activated, New: activated},
	}
	account.Activated = activated

	if err := s.accountRepo.UpdateWithChanges(account, actorID, changes); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// SetUserActivation flips a user's activation flag with the same conflict
// rule as accounts.
func (s *AdminService) SetUserActivation(userID, actorID uint64, activated bool) error {
	if _, err := s.requireAdmin(actorID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.Activated == activated {
		return ErrAlreadyInState
	}

	changes := []audit.FieldChange{
		{Name: "activated", Old: user.Activated, New: activated},
	}
	user.Activated = activated

	if err := s.userRepo.UpdateWithChanges(user, actorID, changes); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SetRole assigns a role to a user. Assigning the current role is a
// conflict; a successful change logs exactly one update row.
func (s *AdminService) SetRole(userID, actorID uint64, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !policy.CanSetRole(actor) {
		return ErrNotAdmin
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.Role == role {
		return ErrRoleUnchanged
	}

	changes := []audit.FieldChange{
		{Name: "role", Old: user.Role, New: role},
	}
	user.Role = role

	if err := s.userRepo.UpdateWithChanges(user, actorID, changes); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateUser applies an admin patch to any user's basic info.
func (s *AdminService) UpdateUser(userID, actorID uint64, input UpdateMeInput) (*models.User, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var changes []audit.FieldChange

	if input.Username != nil {
		changes = append(changes, audit.FieldChange{Name: "username", Old: user.Username, New: *input.Username})
		user.Username = *input.Username
	}
	if input.Email != nil {
		changes = append(changes, audit.FieldChange{Name: "email", Old: user.Email, New: *input.Email})
		user.Email = *input.Email
	}
	if input.IMNumber != nil {
		changes = append(changes, audit.FieldChange{Name: "im_number", Old: user.IMNumber, New: *input.IMNumber})
		user.IMNumber = *input.IMNumber
	}
	if input.Birthday != nil {
		changes = append(changes, audit.FieldChange{Name: "birthday", Old: user.Birthday, New: *input.Birthday})
		user.Birthday = *input.Birthday
	}

	if err := s.userRepo.UpdateWithChanges(user, actorID, changes); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateAccount applies an admin patch to any account's info, bypassing the
// ownership gate.
func (s *AdminService) UpdateAccount(accountID, actorID uint64, input UpdateAccountInput) (*models.Account, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	var changes []audit.FieldChange

	if input.Name != nil {
		changes = append(changes, audit.FieldChange{Name: "name", Old: account.Name, New: *input.Name})
		account.Name = *input.Name
	}
	if input.LPPoint != nil {
		changes = append(changes, audit.FieldChange{Name: "lp_point", Old: account.LPPoint, New: *input.LPPoint})
		account.LPPoint = *input.LPPoint
	}

	if err := s.accountRepo.UpdateWithChanges(account, actorID, changes); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// RecentChangeLogs retrieves the most recent audit trail rows.
func (s *AdminService) RecentChangeLogs(actorID uint64, limit int) ([]models.ChangeLog, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = constants.DefaultChangeLogLimit
	}
	if limit > constants.MaxChangeLogLimit {
		limit = constants.MaxChangeLogLimit
	}
	return s.changeLogRepo.Recent(limit)
}
