package services

import (
	"fmt"
	"testing"

	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AdminServiceTestSuite defines the test suite for AdminService
type AdminServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	service       *AdminService
	changeLogRepo repository.ChangeLogRepository
}

// SetupTest runs before each test
func (suite *AdminServiceTestSuite) SetupTest() {
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
	suite.service = NewAdminService(userRepo, accountRepo, suite.changeLogRepo)
}

// TearDownTest runs after each test
func (suite *AdminServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AdminServiceTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		IMNumber:     fmt.Sprintf("im-%s", username),
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *AdminServiceTestSuite) createTestAccount(name string, ownerID uint64) *models.Account {
	account := &models.Account{
		Name:    name,
		OwnerID: ownerID,
	}
	suite.Require().NoError(suite.db.Create(account).Error)
	return account
}

func (suite *AdminServiceTestSuite) objectLogs(objectType string, objectID uint64) []models.ChangeLog {
	entries, err := suite.changeLogRepo.ListByObject(objectType, objectID)
	suite.Require().NoError(err)
	return entries
}

// TestSetRole_Success tests that a role change logs exactly one row
func (suite *AdminServiceTestSuite) TestSetRole_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	err := suite.service.SetRole(user.ID, admin.ID, models.RoleMissionRunner)

	suite.Require().NoError(err)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), models.RoleMissionRunner, reloaded.Role)

	logs := suite.objectLogs(models.ObjectTypeUser, user.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "role", logs[0].AttributeName)
	assert.Equal(suite.T(), "mission_publisher", logs[0].OldValue)
	assert.Equal(suite.T(), "mission_runner", logs[0].NewValue)
	assert.Equal(suite.T(), admin.ID, logs[0].RequesterID)
}

// TestSetRole_Unchanged tests assigning the role the user already has
func (suite *AdminServiceTestSuite) TestSetRole_Unchanged() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	err := suite.service.SetRole(user.ID, admin.ID, models.RoleMissionPublisher)

	assert.ErrorIs(suite.T(), err, ErrRoleUnchanged)
	assert.Empty(suite.T(), suite.objectLogs(models.ObjectTypeUser, user.ID))
}

// TestSetRole_InvalidRole tests an unknown role name
func (suite *AdminServiceTestSuite) TestSetRole_InvalidRole() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	err := suite.service.SetRole(user.ID, admin.ID, models.Role("overlord"))

	assert.ErrorIs(suite.T(), err, ErrInvalidRole)
}

// TestSetRole_NotAdmin tests that only admins assign roles
func (suite *AdminServiceTestSuite) TestSetRole_NotAdmin() {
	actor := suite.createTestUser("actor", models.RoleMissionRunner)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	err := suite.service.SetRole(user.ID, actor.ID, models.RoleMissionRunner)

	assert.ErrorIs(suite.T(), err, ErrNotAdmin)
}

// TestSetAccountActivation_Success tests flipping the account flag
func (suite *AdminServiceTestSuite) TestSetAccountActivation_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	owner := suite.createTestUser("owner", models.RoleMissionPublisher)
	account := suite.createTestAccount("corp-main", owner.ID)

	err := suite.service.SetAccountActivation(account.ID, admin.ID, true)

	suite.Require().NoError(err)

	var reloaded models.Account
	suite.Require().NoError(suite.db.First(&reloaded, account.ID).Error)
	assert.True(suite.T(), reloaded.Activated)

	logs := suite.objectLogs(models.ObjectTypeAccount, account.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "activated", logs[0].AttributeName)
	assert.Equal(suite.T(), "false", logs[0].OldValue)
	assert.Equal(suite.T(), "true", logs[0].NewValue)
}

// TestSetAccountActivation_AlreadyInState tests activating an activated
// account
func (suite *AdminServiceTestSuite) TestSetAccountActivation_AlreadyInState() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	owner := suite.createTestUser("owner", models.RoleMissionPublisher)
	account := suite.createTestAccount("corp-main", owner.ID)

	suite.Require().NoError(suite.service.SetAccountActivation(account.ID, admin.ID, true))

	err := suite.service.SetAccountActivation(account.ID, admin.ID, true)

	assert.ErrorIs(suite.T(), err, ErrAlreadyInState)
	assert.Len(suite.T(), suite.objectLogs(models.ObjectTypeAccount, account.ID), 1)
}

// TestSetAccountActivation_NotAdmin tests the admin gate
func (suite *AdminServiceTestSuite) TestSetAccountActivation_NotAdmin() {
	owner := suite.createTestUser("owner", models.RoleMissionPublisher)
	account := suite.createTestAccount("corp-main", owner.ID)

	err := suite.service.SetAccountActivation(account.ID, owner.ID, true)

	assert.ErrorIs(suite.T(), err, ErrNotAdmin)
}

// TestSetUserActivation tests the user flag with the same conflict rule
func (suite *AdminServiceTestSuite) TestSetUserActivation() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	suite.Require().NoError(suite.service.SetUserActivation(user.ID, admin.ID, true))

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.True(suite.T(), reloaded.Activated)

	err := suite.service.SetUserActivation(user.ID, admin.ID, true)
	assert.ErrorIs(suite.T(), err, ErrAlreadyInState)
}

// TestUpdateAccount_BypassesOwnership tests the admin account patch
func (suite *AdminServiceTestSuite) TestUpdateAccount_BypassesOwnership() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	owner := suite.createTestUser("owner", models.RoleMissionPublisher)
	account := suite.createTestAccount("corp-main", owner.ID)

	points := int64(250)
	updated, err := suite.service.UpdateAccount(account.ID, admin.ID, UpdateAccountInput{LPPoint: &points})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(250), updated.LPPoint)

	logs := suite.objectLogs(models.ObjectTypeAccount, account.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "lp_point", logs[0].AttributeName)
}

// TestUpdateUser tests the admin user patch
func (suite *AdminServiceTestSuite) TestUpdateUser() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	email := "renamed@example.com"
	updated, err := suite.service.UpdateUser(user.ID, admin.ID, UpdateMeInput{Email: &email})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "renamed@example.com", updated.Email)

	logs := suite.objectLogs(models.ObjectTypeUser, user.ID)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), "email", logs[0].AttributeName)
	assert.Equal(suite.T(), "user@example.com", logs[0].OldValue)
}

// TestListUsers_NotAdmin tests the admin gate on listings
func (suite *AdminServiceTestSuite) TestListUsers_NotAdmin() {
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	_, _, err := suite.service.ListUsers(user.ID, testPagination())

	assert.ErrorIs(suite.T(), err, ErrNotAdmin)
}

// TestRecentChangeLogs tests reading the audit trail newest first
func (suite *AdminServiceTestSuite) TestRecentChangeLogs() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	suite.Require().NoError(suite.service.SetRole(user.ID, admin.ID, models.RoleMissionRunner))
	suite.Require().NoError(suite.service.SetUserActivation(user.ID, admin.ID, true))

	entries, err := suite.service.RecentChangeLogs(admin.ID, 10)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	// Newest first
	assert.Equal(suite.T(), "activated", entries[0].AttributeName)
	assert.Equal(suite.T(), "role", entries[1].AttributeName)
}

// TestRecentChangeLogs_NotAdmin tests that the trail is admin only
func (suite *AdminServiceTestSuite) TestRecentChangeLogs_NotAdmin() {
	user := suite.createTestUser("user", models.RoleMissionPublisher)

	_, err := suite.service.RecentChangeLogs(user.ID, 10)

	assert.ErrorIs(suite.T(), err, ErrNotAdmin)
}

// TestSuite runs the test suite
func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
