package middleware

import (
	"errors"
	"strings"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/shared/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeID = "employee_id"
	ContextRole       = "role"
)

// ContextValidatedID is only set once the token has been verified.
const ContextValidatedID = "user_id_validated"

func AuthMiddleware(verifier token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Header dulu, lalu fallback ke cookie
		var tokenString string
		if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			tokenString = strings.TrimSpace(bearer)
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, token.ErrExpiredToken) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		if claims.TokenType != token.TypeAccess {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		if _, ok := domain.NewActor(claims.EmployeeID, claims.Role); !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextValidatedID, claims.EmployeeID)
		c.Request = c.Request.WithContext(contextutil.WithEmployeeID(c.Request.Context(), claims.EmployeeID))

		c.Next()
	}
}

// RequireRole rejects callers below min before any handler work is done.
func RequireRole(min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := domain.ParseRole(c.GetString(ContextRole))
		if !ok || !domain.AtLeast(role, min) {
			abortWith(c, autherrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// abortWith writes the envelope for err and stops the chain.
func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
