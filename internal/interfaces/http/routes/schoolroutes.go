package routes

import (
	"github.com/gin-gonic/gin"

	schoolhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/school"
	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
)

type SchoolRouteConfig struct {
	SchoolHandler *schoolhandlers.Handler
}

// SetupSchoolRoutes registers school administration. Call routes under
// /schools/:school_id/calls are registered by SetupCallRoutes.
func SetupSchoolRoutes(api *gin.RouterGroup, config *SchoolRouteConfig) {
	h := config.SchoolHandler

	schools := api.Group("/schools")
	{
		schools.GET("", h.ListSchools)
		schools.POST("", middleware.RequireActor(), h.CreateSchool)

		schools.GET("/:school_id", h.GetSchool)
		schools.PATCH("/:school_id", middleware.RequireActor(), h.UpdateSettings)
		schools.DELETE("/:school_id", middleware.RequireActor(), h.DeleteSchool)

		schools.GET("/:school_id/categories", h.GetCategories)
		schools.PUT("/:school_id/categories", middleware.RequireActor(), h.UpdateCategories)
		schools.GET("/:school_id/locations", h.GetLocations)
		schools.PUT("/:school_id/locations", middleware.RequireActor(), h.UpdateLocations)

		schools.GET("/:school_id/accounts", h.ListAccounts)
		schools.POST("/:school_id/accounts", middleware.RequireActor(), h.CreateAccount)
	}
}
