package routes

import (
	"github.com/gin-gonic/gin"

	streamhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/stream"
)

type StreamRouteConfig struct {
	StreamHandler *streamhandlers.Handler
}

func SetupStreamRoutes(api *gin.RouterGroup, config *StreamRouteConfig) {
	h := config.StreamHandler

	stream := api.Group("/stream")
	{
		stream.GET("/schools/:school_id/calls", h.SchoolCalls)
		stream.GET("/calls/:call_id", h.Call)
		stream.GET("/inventory", h.Inventory)
		stream.GET("/technicians/:tech_id/session", h.ActiveSession)
		stream.GET("/sessions", h.Sessions)
	}
}
