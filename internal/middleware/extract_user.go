package middleware

import (
	"go-hrms/internal/domain"
	"go-hrms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ActorFromContext rebuilds the authenticated actor set by AuthMiddleware.
func ActorFromContext(c *gin.Context) (domain.Actor, bool) {
	return domain.NewActor(c.GetString(ContextEmployeeID), c.GetString(ContextRole))
}

// RequireActor guards handlers that cannot run without a resolved actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ActorFromContext(c); !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
