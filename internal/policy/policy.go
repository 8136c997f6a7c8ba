// Package policy holds the authorization predicates gating entity
// mutations. All functions are pure; callers decide how a failed check
// surfaces to the requester.
package policy

import "github.com/stevew1007/mission-runner-api/internal/models"

// CanEditAccount reports whether the user owns the account.
func CanEditAccount(account *models.Account, user *models.User) bool {
	return account.OwnerID == user.ID
}

// CanSetDefaultAccount reports whether the user may mark the account as
// their default. Same ownership rule as editing.
func CanSetDefaultAccount(account *models.Account, user *models.User) bool {
	return account.OwnerID == user.ID
}

// CanSetRole reports whether the actor may change another user's role.
func CanSetRole(actor *models.User) bool {
	return actor.IsAdmin()
}

// CanToggleActivation reports whether the actor may activate or deactivate
// an account or user.
func CanToggleActivation(actor *models.User) bool {
	return actor.IsAdmin()
}
