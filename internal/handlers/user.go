package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/dto"
	apierrors "github.com/stevew1007/mission-runner-api/internal/errors"
	"github.com/stevew1007/mission-runner-api/internal/middleware"
	"github.com/stevew1007/mission-runner-api/internal/services"
)

// UserHandler coordinates self-service user HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateMe edits the authenticated user's own information. Changing the
// password requires the old password in the same request.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateMeRequest struct {
		Username    *string    `json:"username"`
		Email       *string    `json:"email"`
		IMNumber    *string    `json:"im_number"`
		Birthday    *time.Time `json:"birthday"`
		Password    *string    `json:"password"`
		OldPassword *string    `json:"old_password"`
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateMe(userID, services.UpdateMeInput{
		Username:    req.Username,
		Email:       req.Email,
		IMNumber:    req.IMNumber,
		Birthday:    req.Birthday,
		Password:    req.Password,
		OldPassword: req.OldPassword,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// SetDefaultAccount marks one of the user's own accounts as the default.
func (h *UserHandler) SetDefaultAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SetDefaultAccountRequest struct {
		AccountID uint64 `json:"account_id" binding:"required"`
	}

	var req SetDefaultAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.SetDefaultAccount(userID, req.AccountID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetByUsername retrieves a user by username.
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOldPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrIMNumberTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
