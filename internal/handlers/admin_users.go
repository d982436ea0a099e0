package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/internal/services"
	appErrors "github.com/rosterhq/roster/pkg/errors"
	"github.com/rosterhq/roster/pkg/response"
)

type AdminUserHandler struct {
	adminUsers *services.AdminUserService
}

func NewAdminUserHandler(adminUsers *services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUsers: adminUsers}
}

// Pointer fields distinguish "omitted" from "set to empty".
type adminUserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=128"`
	Username *string `json:"username" validate:"omitempty,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
	TimeZone *string `json:"time_zone" validate:"omitempty,max=64"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// PATCH /api/admin/users/:id
func (h *AdminUserHandler) Update(c *gin.Context) {
	if h.adminUsers == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		response.Error(c, appErrors.NewBadRequest("User ID is required"))
		return
	}

	var req adminUserUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.AdminUserUpdateInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		TimeZone: req.TimeZone,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}

	projection, err := h.adminUsers.Update(requestContext(c), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.Error(c, appErrors.ErrNotFound)
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	response.Success(c, http.StatusOK, projection)
}
