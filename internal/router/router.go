package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eposupdate/internal/handler"
	"eposupdate/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	corsOrigins []string,
	massUpdateH *handler.MassUpdateHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	massUpdate := v1.Group("/mass-update")
	massUpdate.POST("", massUpdateH.Run)
	massUpdate.GET("/options", massUpdateH.Options)

	return r
}
