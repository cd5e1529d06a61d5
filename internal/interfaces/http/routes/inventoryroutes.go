package routes

import (
	"github.com/gin-gonic/gin"

	inventoryhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/inventory"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
)

type InventoryRouteConfig struct {
	InventoryHandler *inventoryhandlers.Handler
}

func SetupInventoryRoutes(api *gin.RouterGroup, config *InventoryRouteConfig) {
	h := config.InventoryHandler

	inventory := api.Group("/inventory")
	{
		// Static paths before /:item_id
		inventory.GET("", h.ListItems)
		inventory.GET("/low", h.LowStock)
		inventory.GET("/movements", h.ListMovements)
		inventory.POST("", middleware.RequireActor(), h.AddItem)

		inventory.GET("/:item_id", h.GetItem)
		inventory.GET("/:item_id/movements", h.ListMovements)
		inventory.PATCH("/:item_id", middleware.RequireActor(), h.UpdateItem)
		inventory.POST("/:item_id/restock", middleware.RequireActor(), h.Restock)
		inventory.POST("/:item_id/adjust", middleware.RequireActor(), h.AdjustStock)
	}
}
