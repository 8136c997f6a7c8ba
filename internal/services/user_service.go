package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/constants"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/policy"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidOldPassword = errors.New("old password is missing or incorrect")
)

// UserService handles self-service user operations.
type UserService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, accountRepo repository.AccountRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

// UpdateMeInput is the patch a user may apply to their own record. Nil
// fields are left untouched.
type UpdateMeInput struct {
	Username    *string
	Email       *string
	IMNumber    *string
	Birthday    *time.Time
	Password    *string
	OldPassword *string
}

// UpdateMe applies the patch to the acting user's own record. Each field
// that actually changes produces one change log row; a patch equal to the
// current state writes nothing.
func (s *UserService) UpdateMe(actorID uint64, input UpdateMeInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var changes []audit.FieldChange

	if input.Username != nil {
		if *input.Username != user.Username {
			if _, err := s.userRepo.FindByUsername(*input.Username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
		}
		changes = append(changes, audit.FieldChange{Name: "username", Old: user.Username, New: *input.Username})
		user.Username = *input.Username
	}
	if input.Email != nil {
		if *input.Email != user.Email {
			if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
		}
		changes = append(changes, audit.FieldChange{Name: "email", Old: user.Email, New: *input.Email})
		user.Email = *input.Email
	}
	if input.IMNumber != nil {
		if *input.IMNumber != user.IMNumber {
			if _, err := s.userRepo.FindByIMNumber(*input.IMNumber); err == nil {
				return nil, ErrIMNumberTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check im number: %w", err)
			}
		}
		changes = append(changes, audit.FieldChange{Name: "im_number", Old: user.IMNumber, New: *input.IMNumber})
		user.IMNumber = *input.IMNumber
	}
	if input.Birthday != nil {
		changes = append(changes, audit.FieldChange{Name: "birthday", Old: user.Birthday, New: *input.Birthday})
		user.Birthday = *input.Birthday
	}

	if input.Password != nil {
		if input.OldPassword == nil {
			return nil, ErrInvalidOldPassword
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*input.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		changes = append(changes, audit.FieldChange{Name: "password_hash", Old: user.PasswordHash, New: string(hashed)})
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.UpdateWithChanges(user, actorID, changes); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// SetDefaultAccount marks one of the actor's own accounts as their default.
func (s *UserService) SetDefaultAccount(actorID, accountID uint64) (*models.User, error) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	user, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanSetDefaultAccount(account, user) {
		return nil, ErrNotOwner
	}

	changes := []audit.FieldChange{
		{Name: "default_account_id", Old: user.DefaultAccountID, New: &account.ID},
	}
	user.DefaultAccountID = &account.ID

	if err := s.userRepo.UpdateWithChanges(user, actorID, changes); err != nil {
		return nil, fmt.Errorf("failed to set default account: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by their unique username.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
