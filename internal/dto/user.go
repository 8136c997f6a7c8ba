package dto

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID               uint64      `json:"id"`
	Username         string      `json:"username"`
	Email            string      `json:"email"`
	IMNumber         string      `json:"im_number"`
	Role             models.Role `json:"role"`
	Activated        bool        `json:"activated"`
	LastSeen         time.Time   `json:"last_seen"`
	DefaultAccountID *uint64     `json:"default_account_id"`
}

// ToUserDTO converts a user model to its API shape
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		IMNumber:         user.IMNumber,
		Role:             user.Role,
		Activated:        user.Activated,
		LastSeen:         user.LastSeen,
		DefaultAccountID: user.DefaultAccountID,
	}
}

// ToUserDTOs converts a slice of user models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
