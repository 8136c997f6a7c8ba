package dto

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/models"
)

// AccountDTO represents an account in API responses
type AccountDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Created   time.Time `json:"created"`
	Activated bool      `json:"activated"`
	LPPoint   int64     `json:"lp_point"`
	OwnerID   uint64    `json:"owner_id"`
}

// ToAccountDTO converts an account model to its API shape
func ToAccountDTO(account models.Account) AccountDTO {
	return AccountDTO{
		ID:        account.ID,
		Name:      account.Name,
		Created:   account.Created,
		Activated: account.Activated,
		LPPoint:   account.LPPoint,
		OwnerID:   account.OwnerID,
	}
}

// ToAccountDTOs converts a slice of account models
func ToAccountDTOs(accounts []models.Account) []AccountDTO {
	dtos := make([]AccountDTO, len(accounts))
	for i, account := range accounts {
		dtos[i] = ToAccountDTO(account)
	}
	return dtos
}
