package performance

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
	reviews := r.Group("/performance")
	reviews.Use(auth)
	reviews.Use(middleware.ContextLogger(logger))
	{
		reviews.GET("",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "performance", "read"),
			handler.List,
		)
		reviews.GET("/mine",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "performance", "read"),
			handler.ListMine,
		)
		reviews.GET("/:id",
			middleware.RateLimitByEmployee(5, 10),
			middleware.RBACAuthorize(rbacService, "performance", "read"),
			handler.GetByID,
		)
		reviews.POST("",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "create"),
			handler.Create,
		)
		reviews.PUT("/:id",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "update"),
			handler.Update,
		)
		reviews.PATCH("/:id/submit",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "update"),
			handler.Submit,
		)
		reviews.PATCH("/:id/acknowledge",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "acknowledge"),
			handler.Acknowledge,
		)
		reviews.PATCH("/:id/manager-approve",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "approve"),
			handler.ManagerApprove,
		)
		reviews.PATCH("/:id/approve",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "performance", "hr_approve"),
			handler.HRApprove,
		)
	}
}
