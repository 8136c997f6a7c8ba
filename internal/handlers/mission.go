package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/dto"
	apierrors "github.com/stevew1007/mission-runner-api/internal/errors"
	"github.com/stevew1007/mission-runner-api/internal/middleware"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/repository"
	"github.com/stevew1007/mission-runner-api/internal/services"
	"github.com/stevew1007/mission-runner-api/internal/utils"
)

// MissionHandler coordinates mission HTTP handlers.
type MissionHandler struct {
	missionService *services.MissionService
}

// NewMissionHandler creates a new MissionHandler.
func NewMissionHandler(missionService *services.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// Publish creates a mission from an activated account the user owns.
func (h *MissionHandler) Publish(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid account ID")
		return
	}

	type PublishMissionRequest struct {
		Title   string     `json:"title" binding:"required"`
		Galaxy  string     `json:"galaxy" binding:"required"`
		Bounty  int64      `json:"bounty" binding:"required"`
		Expired time.Time  `json:"expired" binding:"required"`
		Created *time.Time `json:"created"`
	}

	var req PublishMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	mission, err := h.missionService.Publish(accountID, userID, services.PublishInput{
		Title:   req.Title,
		Galaxy:  req.Galaxy,
		Bounty:  req.Bounty,
		Expired: req.Expired,
		Created: req.Created,
	})
	if err != nil {
		respondMissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMissionDTO(*mission))
}

// Get retrieves a mission by id.
func (h *MissionHandler) Get(c *gin.Context) {
	missionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid mission ID")
		return
	}

	mission, err := h.missionService.Get(missionID)
	if err != nil {
		respondMissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMissionDTO(*mission))
}

// List returns missions filtered by galaxy, status, runner, or publisher
// account.
func (h *MissionHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := repository.MissionFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if galaxy := c.Query("galaxy"); galaxy != "" {
		filter.Galaxy = &galaxy
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.MissionStatus(statusStr)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &status
	}
	if runnerStr := c.Query("runner_id"); runnerStr != "" {
		runnerID, err := strconv.ParseUint(runnerStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid runner_id")
			return
		}
		filter.RunnerID = &runnerID
	}
	if accountStr := c.Query("account_id"); accountStr != "" {
		accountID, err := strconv.ParseUint(accountStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid account_id")
			return
		}
		filter.PublisherID = &accountID
	}

	missions, total, err := h.missionService.List(filter)
	if err != nil {
		respondMissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"missions": dto.ToMissionDTOs(missions),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListByAccount returns missions published by one account.
func (h *MissionHandler) ListByAccount(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid account ID")
		return
	}

	params := utils.GetPaginationParams(c)
	missions, total, err := h.missionService.ListByAccount(accountID, params.Page, params.Limit)
	if err != nil {
		respondMissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"missions": dto.ToMissionDTOs(missions),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Action applies one named transition to a mission. The route registers
// the action so the request body stays empty.
func (h *MissionHandler) Action(action models.MissionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		missionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid mission ID")
			return
		}

		if err := h.missionService.ApplyAction(missionID, action, userID); err != nil {
			respondMissionError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// AcceptMissions accepts multiple missions at once; either every mission is
// accepted or none of them are.
func (h *MissionHandler) AcceptMissions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AcceptMissionsRequest struct {
		MissionIDs []uint64 `json:"mission_ids" binding:"required"`
	}

	var req AcceptMissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.missionService.AcceptMissions(req.MissionIDs, userID); err != nil {
		respondMissionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondMissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidBounty),
		errors.Is(err, services.ErrInvalidExpiry),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrNoMissionIDs):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotAllowed):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAccountNotActivated),
		errors.Is(err, services.ErrMissionExpired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrDuplicateMission):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrMissionNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
