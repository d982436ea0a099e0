package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/handlers"
)

func registerTeamRoutes(api *gin.RouterGroup, teamHandler *handlers.TeamHandler) {
	teams := api.Group("/teams")
	{
		teams.POST("/invites/redeem", teamHandler.Redeem)
		teams.POST("/:id/invites", teamHandler.Invite)
		teams.GET("/:id/members", teamHandler.Members)
	}
}
