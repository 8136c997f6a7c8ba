package models

import "time"

type Account struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Created   time.Time `gorm:"autoCreateTime" json:"created"`
	Activated bool      `gorm:"not null;default:false" json:"activated"`
	LPPoint   int64     `gorm:"column:lp_point;not null" json:"lp_point"`
	OwnerID   uint64    `gorm:"index;not null" json:"owner_id"`

	// Relations
	Owner             User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	MissionsPublished []Mission `gorm:"foreignKey:PublisherID" json:"-"`
}

func (a *Account) IsActivated() bool {
	return a.Activated
}
