package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/stevew1007/mission-runner-api/internal/audit"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/policy"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMissionNotFound     = errors.New("mission not found")
	ErrAccountNotActivated = errors.New("account is not activated")
	ErrInvalidBounty       = errors.New("bounty must be a positive integer")
	ErrInvalidExpiry       = errors.New("expiry must be in the future")
	ErrDuplicateMission    = errors.New("an identical mission is already published")
	ErrInvalidTransition   = errors.New("status transition is not allowed")
	ErrMissionExpired      = errors.New("mission has expired")
	ErrNotAllowed          = errors.New("user may not trigger this transition")
	ErrInvalidAction       = errors.New("unknown mission action")
	ErrNoMissionIDs        = errors.New("at least one mission ID is required")
)

// MissionService handles mission publication and the status workflow.
type MissionService struct {
	missionRepo repository.MissionRepository
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
}

// NewMissionService creates a new MissionService.
func NewMissionService(missionRepo repository.MissionRepository, accountRepo repository.AccountRepository, userRepo repository.UserRepository) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

// PublishInput represents input for publishing a mission.
type PublishInput struct {
	Title   string
	Galaxy  string
	Bounty  int64
	Expired time.Time
	// Created defaults to the current time when nil. It is part of the
	// duplicate-publish identity (title, galaxy, created).
	Created *time.Time
}

// Publish creates a mission from an activated account the actor owns. The
// mission starts in the published status with no runner.
func (s *MissionService) Publish(accountID, actorID uint64, input PublishInput) (*models.Mission, error) {
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
	if !account.IsActivated() {
		return nil, ErrAccountNotActivated
	}
	if input.Bounty <= 0 {
		return nil, ErrInvalidBounty
	}

	now := time.Now()
	if !input.Expired.After(now) {
		return nil, ErrInvalidExpiry
	}

	created := now
	if input.Created != nil {
		created = *input.Created
	}

	duplicates, err := s.missionRepo.CountPublishedDuplicates(account.ID, input.Title, input.Galaxy, created)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}
	if duplicates > 0 {
		return nil, ErrDuplicateMission
	}

	mission := &models.Mission{
		Title:       input.Title,
		Galaxy:      input.Galaxy,
		Bounty:      input.Bounty,
		Created:     created,
		Expired:     input.Expired,
		Status:      models.StatusPublished,
		PublisherID: account.ID,
	}

	if err := s.missionRepo.Create(mission, actorID); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	return mission, nil
}

// ApplyAction runs one transition of the mission status workflow on behalf
// of the acting user. Authorization failures leave the mission and the
// change log untouched.
func (s *MissionService) ApplyAction(missionID uint64, action models.MissionAction, actorID uint64) error {
	target, ok := action.TargetStatus()
	if !ok {
		return ErrInvalidAction
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	err = s.missionRepo.Transition(missionID, actorID, func(mission *models.Mission) ([]audit.FieldChange, error) {
		return transitionChanges(mission, actor, target)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissionNotFound
		}
		return err
	}
	return nil
}

// AcceptMissions accepts every listed mission in one transaction. Any
// mission failing its checks aborts the whole batch.
func (s *MissionService) AcceptMissions(missionIDs []uint64, actorID uint64) error {
	if len(missionIDs) == 0 {
		return ErrNoMissionIDs
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	err = s.missionRepo.TransitionAll(missionIDs, actorID, func(mission *models.Mission) ([]audit.FieldChange, error) {
		return transitionChanges(mission, actor, models.StatusAccepted)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissionNotFound
		}
		return err
	}
	return nil
}

// transitionChanges is the mission state machine: it validates the edge
// (topology), checks the per-edge actor rule (policy), mutates the mission,
// and returns the field changes to log. It runs under the repository's row
// lock, so the mission it sees is the commit-time state.
func transitionChanges(mission *models.Mission, actor *models.User, target models.MissionStatus) ([]audit.FieldChange, error) {
	if mission.Status.IsTerminal() || !mission.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	changes := []audit.FieldChange{
		{Name: "status", Old: mission.Status, New: target},
	}

	switch target {
	case models.StatusPublished:
		// Quit: the runner returns the mission to the pool.
		if mission.RunnerID == nil || *mission.RunnerID != actor.ID {
			return nil, ErrNotAllowed
		}
		changes = append(changes, audit.FieldChange{Name: "runner", Old: mission.RunnerID, New: nil})
		mission.RunnerID = nil

	case models.StatusAccepted:
		if mission.IsExpired(time.Now()) {
			return nil, ErrMissionExpired
		}
		if actor.Role == models.RoleMissionPublisher {
			return nil, ErrNotAllowed
		}
		runnerID := actor.ID
		changes = append(changes, audit.FieldChange{Name: "runner", Old: mission.RunnerID, New: &runnerID})
		mission.RunnerID = &runnerID

	case models.StatusCompleted, models.StatusDone:
		if mission.RunnerID == nil || *mission.RunnerID != actor.ID {
			return nil, ErrNotAllowed
		}

	case models.StatusPaid, models.StatusArchived:
		if mission.Publisher.OwnerID != actor.ID {
			return nil, ErrNotAllowed
		}
	}

	mission.Status = target
	return changes, nil
}

// Get retrieves a mission with its publisher and runner loaded.
func (s *MissionService) Get(missionID uint64) (*models.Mission, error) {
	mission, err := s.missionRepo.FindByID(missionID, "Publisher", "Runner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, fmt.Errorf("failed to find mission: %w", err)
	}
	return mission, nil
}

// List retrieves missions matching the filter.
func (s *MissionService) List(filter repository.MissionFilter) ([]models.Mission, int64, error) {
	missions, total, err := s.missionRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, total, nil
}

// ListByAccount retrieves the missions published by one account.
func (s *MissionService) ListByAccount(accountID uint64, page, pageSize int) ([]models.Mission, int64, error) {
	if _, err := s.accountRepo.FindByID(accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrAccountNotFound
		}
		return nil, 0, fmt.Errorf("failed to find account: %w", err)
	}

	return s.List(repository.MissionFilter{
		PublisherID: &accountID,
		Page:        page,
		PageSize:    pageSize,
	})
}
