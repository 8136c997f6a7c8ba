package dto

import (
	"time"

	"github.com/stevew1007/mission-runner-api/internal/models"
)

// MissionDTO represents a mission in API responses
type MissionDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Galaxy      string               `json:"galaxy"`
	Bounty      int64                `json:"bounty"`
	Created     time.Time            `json:"created"`
	Expired     time.Time            `json:"expired"`
	Status      models.MissionStatus `json:"status"`
	PublisherID uint64               `json:"publisher_id"`
	RunnerID    *uint64              `json:"runner_id"`
	Publisher   *AccountDTO          `json:"publisher,omitempty"`
	Runner      *UserDTO             `json:"runner,omitempty"`
}

// ToMissionDTO converts a mission model to its API shape, flattening any
// preloaded relations
func ToMissionDTO(mission models.Mission) MissionDTO {
	out := MissionDTO{
		ID:          mission.ID,
		Title:       mission.Title,
		Galaxy:      mission.Galaxy,
		Bounty:      mission.Bounty,
		Created:     mission.Created,
		Expired:     mission.Expired,
		Status:      mission.Status,
		PublisherID: mission.PublisherID,
		RunnerID:    mission.RunnerID,
	}
	if mission.Publisher.ID != 0 {
		publisher := ToAccountDTO(mission.Publisher)
		out.Publisher = &publisher
	}
	if mission.Runner != nil {
		runner := ToUserDTO(*mission.Runner)
		out.Runner = &runner
	}
	return out
}

// ToMissionDTOs converts a slice of mission models
func ToMissionDTOs(missions []models.Mission) []MissionDTO {
	dtos := make([]MissionDTO, len(missions))
	for i, mission := range missions {
		dtos[i] = ToMissionDTO(mission)
	}
	return dtos
}
