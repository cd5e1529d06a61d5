package http

import (
	"time"

	"github.com/schoolit/servicedesk/internal/interfaces/http/middleware"
	"github.com/schoolit/servicedesk/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	h := c.hdlrs

	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", h.healthHandler.HealthCheck)
	c.engine.GET("/version", h.healthHandler.Version)

	api := c.engine.Group("/api")
	if c.redis != nil && c.cfg.Redis.WriteLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.NewRedisCounter(c.redis), c.cfg.Redis.WriteLimit, time.Minute, c.log)
		api.Use(limiter.Limit())
	}

	routes.SetupSchoolRoutes(api, &routes.SchoolRouteConfig{SchoolHandler: h.schoolHandler})
	routes.SetupCallRoutes(api, &routes.CallRouteConfig{CallHandler: h.callHandler})
	routes.SetupInventoryRoutes(api, &routes.InventoryRouteConfig{InventoryHandler: h.inventoryHandler})
	routes.SetupSessionRoutes(api, &routes.SessionRouteConfig{SessionHandler: h.sessionHandler})
	routes.SetupStreamRoutes(api, &routes.StreamRouteConfig{StreamHandler: h.streamHandler})
}

// Run starts the HTTP server
func (c *Container) Run(addr string) error {
	return c.engine.Run(addr)
}
