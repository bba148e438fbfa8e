package department

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
	departments := r.Group("/departments")
	departments.Use(auth)
	departments.Use(middleware.ContextLogger(logger))
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), handler.List)
		departments.GET("/:id", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetByID)
		departments.POST("",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "department", "create"),
			handler.Create,
		)
		departments.PUT("/:id",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "department", "update"),
			handler.Update,
		)
		departments.DELETE("/:id",
			middleware.RateLimitByEmployee(0.1, 1),
			middleware.RBACAuthorize(rbacService, "department", "delete"),
			handler.Delete,
		)
	}
}
