package models

import "time"

type MissionStatus string

const (
	StatusDraft     MissionStatus = "draft"
	StatusPublished MissionStatus = "published"
	StatusAccepted  MissionStatus = "accepted"
	StatusCompleted MissionStatus = "completed"
	StatusPaid      MissionStatus = "paid"
	StatusDone      MissionStatus = "done"
	StatusArchived  MissionStatus = "archived"
	StatusIssue     MissionStatus = "issue"
)

// transitions lists the statuses reachable from each status. Statuses
// without an entry have no outgoing edges.
var transitions = map[MissionStatus][]MissionStatus{
	StatusPublished: {StatusAccepted, StatusArchived},
	StatusAccepted:  {StatusCompleted, StatusPublished},
	StatusCompleted: {StatusPaid},
	StatusPaid:      {StatusDone},
}

// Valid reports whether the value is one of the known statuses.
func (s MissionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusAccepted, StatusCompleted,
		StatusPaid, StatusDone, StatusArchived, StatusIssue:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s MissionStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusArchived || s == StatusIssue
}

// Next returns the statuses reachable from s.
func (s MissionStatus) Next() []MissionStatus {
	return transitions[s]
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s MissionStatus) CanTransitionTo(target MissionStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// MissionAction names the transition a caller requests on a mission.
type MissionAction string

const (
	ActionAccept   MissionAction = "accept"
	ActionComplete MissionAction = "complete"
	ActionPay      MissionAction = "pay"
	ActionDone     MissionAction = "done"
	ActionArchive  MissionAction = "archive"
	ActionQuit     MissionAction = "quit"
)

// TargetStatus maps an action to the status it requests.
func (a MissionAction) TargetStatus() (MissionStatus, bool) {
	switch a {
	case ActionAccept:
		return StatusAccepted, true
	case ActionComplete:
		return StatusCompleted, true
	case ActionPay:
		return StatusPaid, true
	case ActionDone:
		return StatusDone, true
	case ActionArchive:
		return StatusArchived, true
	case ActionQuit:
		// The runner returns the mission to the pool.
		return StatusPublished, true
	}
	return "", false
}

type Mission struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Galaxy      string        `gorm:"index;not null" json:"galaxy"`
	Bounty      int64         `gorm:"not null" json:"bounty"`
	Created     time.Time     `json:"created"`
	Expired     time.Time     `json:"expired"`
	Status      MissionStatus `gorm:"type:varchar(20);not null;default:'published';index" json:"status"`
	PublisherID uint64        `gorm:"index;not null" json:"publisher_id"`
	RunnerID    *uint64       `gorm:"index" json:"runner_id"`

	// Relations
	Publisher Account `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	Runner    *User   `gorm:"foreignKey:RunnerID" json:"runner,omitempty"`
}

// IsExpired reports whether the mission's expiry is behind the given time.
func (m *Mission) IsExpired(now time.Time) bool {
	return now.After(m.Expired)
}
