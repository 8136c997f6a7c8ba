package services

import (
	"fmt"
	"testing"

	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	service       *UserService
	changeLogRepo repository.ChangeLogRepository
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.ChangeLog{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	accountRepo := repository.NewAccountRepository(suite.db)
	suite.changeLogRepo = repository.NewChangeLogRepository(suite.db)
	suite.service = NewUserService(userRepo, accountRepo)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createTestUser(username, password string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		IMNumber:     fmt.Sprintf("im-%s", username),
		PasswordHash: string(hashed),
		Role:         models.RoleMissionPublisher,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserServiceTestSuite) userLogs(userID uint64) []models.ChangeLog {
	entries, err := suite.changeLogRepo.ListByObject(models.ObjectTypeUser, userID)
	suite.Require().NoError(err)
	return entries
}

// TestUpdateMe_Success tests patching basic fields
func (suite *UserServiceTestSuite) TestUpdateMe_Success() {
	user := suite.createTestUser("pilot", "supersecret")

	email := "new@example.com"
	updated, err := suite.service.UpdateMe(user.ID, UpdateMeInput{Email: &email})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "new@example.com", updated.Email)

	logs := suite.userLogs(user.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "email", logs[0].AttributeName)
	assert.Equal(suite.T(), "pilot@example.com", logs[0].OldValue)
	assert.Equal(suite.T(), "new@example.com", logs[0].NewValue)
}

// TestUpdateMe_NoopWritesNothing tests that repeating the current values
// leaves the log untouched
func (suite *UserServiceTestSuite) TestUpdateMe_NoopWritesNothing() {
	user := suite.createTestUser("pilot", "supersecret")

	sameUsername := "pilot"
	sameEmail := "pilot@example.com"
	_, err := suite.service.UpdateMe(user.ID, UpdateMeInput{
		Username: &sameUsername,
		Email:    &sameEmail,
	})

	suite.Require().NoError(err)
	assert.Empty(suite.T(), suite.userLogs(user.ID))
}

// TestUpdateMe_UsernameTaken tests renaming onto an existing username
func (suite *UserServiceTestSuite) TestUpdateMe_UsernameTaken() {
	suite.createTestUser("pilot", "supersecret")
	user := suite.createTestUser("copilot", "supersecret")

	taken := "pilot"
	_, err := suite.service.UpdateMe(user.ID, UpdateMeInput{Username: &taken})

	assert.ErrorIs(suite.T(), err, ErrUsernameTaken)
}

// TestUpdateMe_PasswordChange tests the old-password verification path
func (suite *UserServiceTestSuite) TestUpdateMe_PasswordChange() {
	user := suite.createTestUser("pilot", "supersecret")

	newPassword := "evenmoresecret"
	oldPassword := "supersecret"
	updated, err := suite.service.UpdateMe(user.ID, UpdateMeInput{
		Password:    &newPassword,
		OldPassword: &oldPassword,
	})

	suite.Require().NoError(err)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)))

	logs := suite.userLogs(user.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "password_hash", logs[0].AttributeName)
}

// TestUpdateMe_WrongOldPassword tests the verification failure
func (suite *UserServiceTestSuite) TestUpdateMe_WrongOldPassword() {
	user := suite.createTestUser("pilot", "supersecret")

	newPassword := "evenmoresecret"
	wrong := "notmypassword"
	_, err := suite.service.UpdateMe(user.ID, UpdateMeInput{
		Password:    &newPassword,
		OldPassword: &wrong,
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidOldPassword)
}

// TestUpdateMe_MissingOldPassword tests a password change without the
// current one
func (suite *UserServiceTestSuite) TestUpdateMe_MissingOldPassword() {
	user := suite.createTestUser("pilot", "supersecret")

	newPassword := "evenmoresecret"
	_, err := suite.service.UpdateMe(user.ID, UpdateMeInput{Password: &newPassword})

	assert.ErrorIs(suite.T(), err, ErrInvalidOldPassword)
}

// TestSetDefaultAccount_Success tests marking an owned account as default
func (suite *UserServiceTestSuite) TestSetDefaultAccount_Success() {
	user := suite.createTestUser("pilot", "supersecret")
	account := &models.Account{Name: "corp-main", OwnerID: user.ID}
	suite.Require().NoError(suite.db.Create(account).Error)

	updated, err := suite.service.SetDefaultAccount(user.ID, account.ID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.DefaultAccountID)
	assert.Equal(suite.T(), account.ID, *updated.DefaultAccountID)

	logs := suite.userLogs(user.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "default_account_id", logs[0].AttributeName)
	assert.Equal(suite.T(), "", logs[0].OldValue)
	assert.Equal(suite.T(), fmt.Sprintf("%d", account.ID), logs[0].NewValue)
}

// TestSetDefaultAccount_NotOwner tests defaulting someone else's account
func (suite *UserServiceTestSuite) TestSetDefaultAccount_NotOwner() {
	owner := suite.createTestUser("owner", "supersecret")
	user := suite.createTestUser("pilot", "supersecret")
	account := &models.Account{Name: "corp-main", OwnerID: owner.ID}
	suite.Require().NoError(suite.db.Create(account).Error)

	_, err := suite.service.SetDefaultAccount(user.ID, account.ID)

	assert.ErrorIs(suite.T(), err, ErrNotOwner)
}

// TestGetByUsername tests lookup by unique username
func (suite *UserServiceTestSuite) TestGetByUsername() {
	user := suite.createTestUser("pilot", "supersecret")

	found, err := suite.service.GetByUsername("pilot")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), user.ID, found.ID)

	_, err = suite.service.GetByUsername("ghost")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
