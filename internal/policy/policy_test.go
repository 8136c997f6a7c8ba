package policy

import (
	"testing"

	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCanEditAccount(t *testing.T) {
	owner := &models.User{ID: 1}
	other := &models.User{ID: 2}
	account := &models.Account{ID: 10, OwnerID: 1}

	require.True(t, CanEditAccount(account, owner))
	require.False(t, CanEditAccount(account, other))
}

func TestCanSetDefaultAccount(t *testing.T) {
	owner := &models.User{ID: 1}
	admin := &models.User{ID: 2, Role: models.RoleAdmin}
	account := &models.Account{ID: 10, OwnerID: 1}

	require.True(t, CanSetDefaultAccount(account, owner))
	// Even admins only default their own accounts.
	require.False(t, CanSetDefaultAccount(account, admin))
}

func TestAdminOnlyPredicates(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	runner := &models.User{ID: 2, Role: models.RoleMissionRunner}
	publisher := &models.User{ID: 3, Role: models.RoleMissionPublisher}

	require.True(t, CanSetRole(admin))
	require.False(t, CanSetRole(runner))
	require.False(t, CanSetRole(publisher))

	require.True(t, CanToggleActivation(admin))
	require.False(t, CanToggleActivation(runner))
	require.False(t, CanToggleActivation(publisher))
}
