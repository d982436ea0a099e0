package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/handlers"
)

func registerOrganizationRoutes(api *gin.RouterGroup, orgHandler *handlers.OrganizationHandler) {
	orgs := api.Group("/organizations")
	{
		orgs.POST("/intent", orgHandler.Intent)
		orgs.GET("/slug-availability", orgHandler.SlugAvailability)
	}
}
