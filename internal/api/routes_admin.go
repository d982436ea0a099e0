package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/handlers"
	"github.com/rosterhq/roster/internal/middleware"
)

func registerAdminRoutes(api *gin.RouterGroup, adminHandler *handlers.AdminUserHandler) {
	admin := api.Group("/admin")
	admin.Use(middleware.RequirePlatformAdmin())
	{
		admin.PATCH("/users/:id", adminHandler.Update)
	}
}
