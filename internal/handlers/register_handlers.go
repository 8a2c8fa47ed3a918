package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/middleware"
	"github.com/wagetrack/wagetrack/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes.
	registerAuthRoutes(r, cfg, services)

	// Everything under /api/v1 requires a valid bearer token.
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, services.User))

	registerUserRoutes(v1, services.User)
	registerShiftRoutes(v1, services.Shift)
	registerObligationRoutes(v1, services.Obligation)
	registerBalanceRoutes(v1, services.Balance)
	registerCategoryRoutes(v1, services.Category)
	registerEmploymentRoutes(v1, services.Employment)
	registerEventRoutes(v1, services.Events)
}
