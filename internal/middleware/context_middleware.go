package middleware

import (
	"go-hrms/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger. It must run after RequestID
// and, for authenticated routes, after AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rid := contextutil.GetRequestID(ctx)
		eid := c.GetString(ContextValidatedID)

		// Logger ini dipakai sepanjang request
		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("employee_id", eid),
			zap.String("path", c.FullPath()),
		)

		ctx = contextutil.WithLogger(ctx, reqLogger)
		if eid != "" {
			ctx = contextutil.WithEmployeeID(ctx, eid)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
