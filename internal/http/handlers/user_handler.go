package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/dto"
	"github.com/liveauction/auction-backend/internal/http/handlers/common"
	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/repository"
)

// UserHandler предоставляет HTTP слой для пользователей.
type UserHandler struct {
	users *repository.UserRepository
}

// NewUserHandler создаёт хэндлер.
func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me обрабатывает GET /users/me — профиль текущего пользователя.
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondNotFound(c, "пользователь не найден")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// UpdateRole обрабатывает PUT /users/:id/role — смену роли пользователя.
// Доступно только администратору.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	if role != models.RoleAdmin {
		common.RespondForbidden(c, "")
		return
	}

	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateRoleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if _, ok := models.ValidRoles[req.Role]; !ok {
		common.RespondBadRequest(c, "недопустимая роль")
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), userID, req.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondNotFound(c, "пользователь не найден")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "роль обновлена", nil)
}
