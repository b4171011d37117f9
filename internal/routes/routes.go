package routes

import (
	"tdc_backend/internal/handlers"
	"tdc_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API handler under /api.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	mw handlers.Middlewares,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, mw)
		appHandlers.UserHandler.RegisterRoutes(api, mw)
		for _, h := range appHandlers.CertificateHandlers {
			h.RegisterRoutes(api, mw)
		}
		appHandlers.PaymentHandler.RegisterRoutes(api, mw)
		appHandlers.AdminHandler.RegisterRoutes(api, mw)
	}
	logger.Info("API routes registered", "prefix", "/api")
}
