package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stevew1007/mission-runner-api/internal/dto"
	apierrors "github.com/stevew1007/mission-runner-api/internal/errors"
	"github.com/stevew1007/mission-runner-api/internal/middleware"
	"github.com/stevew1007/mission-runner-api/internal/services"
	"github.com/stevew1007/mission-runner-api/internal/utils"
)

// AccountHandler coordinates account HTTP handlers.
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Register creates a new account under the authenticated user.
func (h *AccountHandler) Register(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RegisterAccountRequest struct {
		Name    string `json:"name" binding:"required"`
		LPPoint int64  `json:"lp_point"`
	}

	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Register(userID, services.RegisterInput{
		Name:    req.Name,
		LPPoint: req.LPPoint,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountDTO(*account))
}

// List returns the authenticated user's accounts.
func (h *AccountHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	accounts, total, err := h.accountService.ListOwn(userID, params)
	if err != nil {
		respondAccountError(c, err)
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

// Get retrieves an account by id. Users only see their own accounts.
func (h *AccountHandler) Get(c *gin.Context) {
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

	account, err := h.accountService.Get(accountID, userID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// GetByName retrieves an account by its unique name.
func (h *AccountHandler) GetByName(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	account, err := h.accountService.GetByName(c.Param("name"), userID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// Update edits an account the authenticated user owns.
func (h *AccountHandler) Update(c *gin.Context) {
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

	account, err := h.accountService.Update(accountID, userID, services.UpdateAccountInput{
		Name:    req.Name,
		LPPoint: req.LPPoint,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAccountName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAccountNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
