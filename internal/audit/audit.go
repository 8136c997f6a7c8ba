package audit

import (
	"fmt"
	"time"

	"github.com/stevew1007/mission-runner-api/internal/models"
)

// FieldChange captures a single attribute transition on an entity. Old and
// New hold the raw values; they are string-coerced before comparison and
// storage.
type FieldChange struct {
	Name string
	Old  any
	New  any
}

// Coerce renders a value the way it is stored in change log rows. A nil
// value (including a nil *uint64 reference) renders as the empty string.
func Coerce(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *uint64:
		if val == nil {
			return ""
		}
		return fmt.Sprintf("%d", *val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// InsertEntry builds the single row recorded when an entity is created.
func InsertEntry(objectType string, objectID, requesterID uint64) models.ChangeLog {
	return models.ChangeLog{
		ObjectType:  objectType,
		ObjectID:    objectID,
		Operation:   models.OperationInsert,
		RequesterID: requesterID,
		NewValue:    fmt.Sprintf("Add %s ID: %d", objectType, objectID),
	}
}

// UpdateEntries builds one row per field that actually changed. A field
// whose coerced old and new values are equal produces no row; callers rely
// on this to keep no-op writes out of the log.
func UpdateEntries(objectType string, objectID, requesterID uint64, changes []FieldChange) []models.ChangeLog {
	entries := make([]models.ChangeLog, 0, len(changes))
	for _, change := range changes {
		oldValue := Coerce(change.Old)
		newValue := Coerce(change.New)
		if oldValue == newValue {
			continue
		}
		entries = append(entries, models.ChangeLog{
			ObjectType:    objectType,
			ObjectID:      objectID,
			Operation:     models.OperationUpdate,
			RequesterID:   requesterID,
			AttributeName: change.Name,
			OldValue:      oldValue,
			NewValue:      newValue,
		})
	}
	return entries
}
