package models

import "time"

type Role string

const (
	RoleAdmin            Role = "admin"
	RoleMissionRunner    Role = "mission_runner"
	RoleMissionPublisher Role = "mission_publisher"
)

// Valid reports whether the value is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMissionRunner, RoleMissionPublisher:
		return true
	}
	return false
}

type User struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	Username         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	IMNumber         string    `gorm:"column:im_number;type:varchar(20);uniqueIndex;not null" json:"im_number"`
	PasswordHash     string    `gorm:"type:varchar(128);not null" json:"-"`
	Role             Role      `gorm:"type:varchar(20);not null;default:'mission_publisher'" json:"role"`
	Birthday         time.Time `json:"birthday"`
	LastSeen         time.Time `json:"last_seen"`
	Activated        bool      `gorm:"not null;default:false" json:"activated"`
	DefaultAccountID *uint64   `json:"default_account_id"`
	CreatedAt        time.Time `json:"created_at"`

	// Relations
	Accounts    []Account `gorm:"foreignKey:OwnerID" json:"-"`
	MissionsRun []Mission `gorm:"foreignKey:RunnerID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActivated() bool {
	return u.Activated
}
