package attendance

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	logger *zap.Logger,
) {
	attendance := r.Group("/attendance")
	attendance.Use(auth)
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.GET("",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			handler.List,
		)
		attendance.GET("/summary",
			middleware.RateLimitByEmployee(2, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			handler.Summary,
		)
		attendance.POST("/clock-in",
			middleware.RateLimitByEmployee(0.2, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			handler.ClockIn,
		)
		attendance.POST("/:id/clock-out",
			middleware.RateLimitByEmployee(0.2, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			handler.ClockOut,
		)
		attendance.POST("/manual",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "manage"),
			handler.ManualEntry,
		)
	}
}
