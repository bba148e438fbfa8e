package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(auth)
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.List,
		)
		leaves.GET("/mine",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.ListMine,
		)
		leaves.GET("/:id",
			middleware.RateLimitByEmployee(5, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetByID,
		)
		leaves.POST("",
			middleware.RateLimitByEmployee(0.5, 3),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			handler.Apply,
		)
		leaves.PATCH("/:id",
			middleware.RateLimitByEmployee(1, 3),
			middleware.RBACAuthorize(rbacService, "leave", "update"),
			handler.Update,
		)
		leaves.PATCH("/:id/process",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Process,
		)
		leaves.PATCH("/:id/cancel",
			middleware.RateLimitByEmployee(1, 3),
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			handler.Cancel,
		)
	}
}
