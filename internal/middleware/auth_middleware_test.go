package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrms/internal/domain"
	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware(t *testing.T) {
	tm := token.NewManager("test-secret", time.Minute, time.Hour)
	employeeID := uuid.New().String()

	router := setupRouter()
	router.GET("/me", middleware.AuthMiddleware(tm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"employee_id": c.GetString(middleware.ContextEmployeeID),
			"role":        c.GetString(middleware.ContextRole),
			"ctx_id":      contextutil.GetEmployeeID(c.Request.Context()),
		})
	})

	t.Run("bearer header", func(t *testing.T) {
		access, err := tm.SignAccess(employeeID, "manager")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), employeeID)
		assert.Contains(t, w.Body.String(), `"role":"manager"`)
		assert.Contains(t, w.Body.String(), `"ctx_id":"`+employeeID+`"`)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		access, err := tm.SignAccess(employeeID, "employee")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		refresh, err := tm.SignRefresh(employeeID, "employee")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("unknown role", func(t *testing.T) {
		access, err := tm.SignAccess(employeeID, "janitor")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router := setupRouter()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(middleware.ContextRole, c.GetHeader("X-Test-Role"))
		c.Next()
	}, middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"super_admin": http.StatusNoContent,
		"admin":       http.StatusNoContent,
		"hr":          http.StatusForbidden,
		"":            http.StatusForbidden,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Test-Role", role)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}
