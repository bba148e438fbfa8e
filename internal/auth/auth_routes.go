package auth

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, logger *zap.Logger) {
	group := r.Group("/auth")
	group.Use(middleware.ContextLogger(logger))
	{
		group.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		group.POST("/refresh", middleware.RateLimitByIP(0.2, 5), handler.Refresh)
		group.POST("/logout", middleware.RateLimitByIP(1, 5), handler.Logout)
		group.GET("/me", auth, middleware.RateLimitByEmployee(2, 5), handler.Me)
	}
}
