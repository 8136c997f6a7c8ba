package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/constants"
	"github.com/stevew1007/mission-runner-api/internal/dto"
	apierrors "github.com/stevew1007/mission-runner-api/internal/errors"
	"github.com/stevew1007/mission-runner-api/internal/middleware"
	"github.com/stevew1007/mission-runner-api/internal/models"
	"github.com/stevew1007/mission-runner-api/internal/services"
	"github.com/stevew1007/mission-runner-api/internal/utils"
)

// AdminHandler coordinates administrator HTTP handlers. Routes are
// additionally gated by middleware.RequireRole(models.RoleAdmin).
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns all users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.adminService.ListUsers(userID, params)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListAccounts returns all accounts regardless of owner.
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	accounts, total, err := h.adminService.ListAccounts(userID, params)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": dto.ToAccountDTOs(accounts),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetAccount retrieves any account by id.
func (h *AdminHandler) GetAccount(c *gin.Context) {
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

	account, err := h.adminService.GetAccount(accountID, userID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// ActivateAccount activates the account.
func (h *AdminHandler) ActivateAccount(c *gin.Context) {
	h.setAccountActivation(c, true)
}

// DeactivateAccount deactivates the account.
func (h *AdminHandler) DeactivateAccount(c *gin.Context) {
	h.setAccountActivation(c, false)
}

func (h *AdminHandler) setAccountActivation(c *gin.Context, activated bool) {
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

	if err := h.adminService.SetAccountActivation(accountID, userID, activated); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateUser activates the user.
func (h *AdminHandler) ActivateUser(c *gin.Context) {
	h.setUserActivation(c, true)
}

// DeactivateUser deactivates the user.
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	h.setUserActivation(c, false)
}

func (h *AdminHandler) setUserActivation(c *gin.Context, activated bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.adminService.SetUserActivation(targetID, userID, activated); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetRole assigns a role to a user.
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.adminService.SetRole(targetID, userID, models.Role(req.Role)); err != nil {
		respondAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateUser edits any user's basic information.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateUserRequest struct {
		Username *string    `json:"username"`
		Email    *string    `json:"email"`
		IMNumber *string    `json:"im_number"`
		Birthday *time.Time `json:"birthday"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.UpdateUser(targetID, userID, services.UpdateMeInput{
		Username: req.Username,
		Email:    req.Email,
		IMNumber: req.IMNumber,
		Birthday: req.Birthday,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateAccount edits any account's information, bypassing ownership.
func (h *AdminHandler) UpdateAccount(c *gin.Context) {
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

	type UpdateAccountRequest struct {
		Name    *string `json:"name"`
		LPPoint *int64  `json:"lp_point"`
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.adminService.UpdateAccount(accountID, userID, services.UpdateAccountInput{
		Name:    req.Name,
		LPPoint: req.LPPoint,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// RecentChangeLogs returns the most recent audit trail rows.
func (h *AdminHandler) RecentChangeLogs(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultChangeLogLimit)))

	entries, err := h.adminService.RecentChangeLogs(userID, limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changelog": entries,
	})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotAdmin):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrRoleUnchanged),
		errors.Is(err, services.ErrAlreadyInState):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
