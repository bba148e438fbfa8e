package payroll

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	rdb redis.Cmdable,
	logger *zap.Logger,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(auth)
	payrolls.Use(middleware.ContextLogger(logger))
	{
		payrolls.GET("",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.List,
		)
		payrolls.GET("/mine",
			middleware.RateLimitByEmployee(3, 10),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.ListMine,
		)
		payrolls.GET("/export",
			middleware.RateLimitByEmployee(0.2, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "export"),
			handler.Export,
		)
		payrolls.GET("/:id",
			middleware.RateLimitByEmployee(5, 10),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetByID,
		)
		payrolls.GET("/:id/payslip",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.DownloadPayslip,
		)
		payrolls.POST("",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		payrolls.PUT("/:id",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "update"),
			handler.Update,
		)
		payrolls.POST("/:id/pay",
			middleware.RateLimitByEmployee(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "pay"),
			middleware.Idempotency(rdb),
			handler.Pay,
		)
	}
}
