package models

import "time"

// Operation classifies a change log row.
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Object type names recorded in change log rows.
const (
	ObjectTypeUser    = "User"
	ObjectTypeAccount = "Account"
	ObjectTypeMission = "Mission"
)

// ChangeLog is an append-only record of a field-level mutation. Rows are
// never updated or deleted; ObjectID and RequesterID are informational ints
// with no foreign-key integrity.
type ChangeLog struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	ObjectType    string    `gorm:"type:varchar(64);not null" json:"object_type"`
	ObjectID      uint64    `gorm:"index;not null" json:"object_id"`
	Operation     Operation `gorm:"type:varchar(10);not null" json:"operation"`
	RequesterID   uint64    `gorm:"index;not null" json:"requester_id"`
	Timestamp     time.Time `gorm:"autoCreateTime" json:"timestamp"`
	AttributeName string    `gorm:"type:varchar(64)" json:"attribute_name"`
	OldValue      string    `gorm:"type:varchar(255)" json:"old_value"`
	NewValue      string    `gorm:"type:varchar(255)" json:"new_value"`
}

// TableName keeps the historical singular table name.
func (ChangeLog) TableName() string {
	return "change_log"
}
