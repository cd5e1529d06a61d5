package routes

import (
	"github.com/gin-gonic/gin"

	sessionhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/worksession"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
)

type SessionRouteConfig struct {
	SessionHandler *sessionhandlers.Handler
}

func SetupSessionRoutes(api *gin.RouterGroup, config *SessionRouteConfig) {
	h := config.SessionHandler

	sessions := api.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.GET("/hours", h.HoursByTechnician)
		sessions.POST("", middleware.RequireActor(), h.ClockIn)
		sessions.POST("/:session_id/clock-out", middleware.RequireActor(), h.ClockOut)
	}

	api.GET("/technicians/:tech_id/session", h.ActiveSession)
}
