package employee

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
	employees := r.Group("/employees")
	employees.Use(auth)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.List,
		)

		employees.GET("/team",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "team"),
			handler.Team,
		)

		employees.GET("/:id",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetByID,
		)

		employees.GET("/:id/dashboard",
			middleware.RateLimitByEmployee(2, 5),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.Dashboard,
		)

		employees.POST("",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			handler.Create,
		)

		employees.PATCH("/:id",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employee", "update"),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByEmployee(0.1, 1),
			middleware.RBACAuthorize(rbacService, "employee", "delete"),
			handler.Terminate,
		)
	}
}
