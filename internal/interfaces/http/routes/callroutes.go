package routes

import (
	"github.com/gin-gonic/gin"

	callhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/calls"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
)

type CallRouteConfig struct {
	CallHandler *callhandlers.Handler
}

func SetupCallRoutes(api *gin.RouterGroup, config *CallRouteConfig) {
	h := config.CallHandler

	schoolCalls := api.Group("/schools/:school_id/calls")
	{
		schoolCalls.GET("", h.ListCalls)
		schoolCalls.GET("/stats", h.CallStats)
		schoolCalls.POST("", middleware.RequireActor(), h.CreateCall)
	}

	calls := api.Group("/calls")
	{
		calls.GET("/:call_id", h.GetCall)

		mutating := calls.Group("/:call_id", middleware.RequireActor())
		mutating.PATCH("/status", h.UpdateStatus)
		mutating.PATCH("/priority", h.UpdatePriority)
		mutating.PATCH("/category", h.UpdateCategory)
		mutating.POST("/notes", h.AddNote)
		mutating.POST("/supplies", h.SupplyEquipment)
	}
}
