package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrms/internal/domain"
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	lastRole string
}

func (m *mockService) LoadPolicy(ctx context.Context) error {
	return nil
}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	if req.Resource == "rbac" && req.Action == "manage" {
		return req.Role == "admin", nil
	}
	m.lastRole = req.Role
	return req.Resource == "employee" && req.Action == "read", nil
}

func (m *mockService) ListPermissions() ([]PermissionResponse, error) {
	return []PermissionResponse{{Role: "employee", Resource: "employee", Action: "read"}}, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := &mockService{}
	handler := NewHandler(service)

	router := gin.New()
	router.POST("/rbac/enforce", func(c *gin.Context) {
		role := c.GetHeader("X-Test-Role")
		if role == "" {
			role = "manager"
		}
		c.Set(middleware.ContextRole, role)
		c.Next()
	}, handler.Enforce)

	t.Run("uses caller role when omitted", func(t *testing.T) {
		jsonBody, _ := json.Marshal(EnforceRequest{Resource: "employee", Action: "read"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Ok   bool            `json:"ok"`
			Data EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.True(t, env.Data.Allowed)
		assert.Equal(t, "manager", service.lastRole)
	})

	t.Run("missing action", func(t *testing.T) {
		jsonBody, _ := json.Marshal(EnforceRequest{Resource: "employee"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("manager cannot ask about another role", func(t *testing.T) {
		service.lastRole = ""
		jsonBody, _ := json.Marshal(EnforceRequest{Role: "hr", Resource: "payroll", Action: "export"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, service.lastRole)
	})

	t.Run("own role spelled out needs no grant", func(t *testing.T) {
		jsonBody, _ := json.Marshal(EnforceRequest{Role: "manager", Resource: "employee", Action: "read"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "manager", service.lastRole)
	})

	t.Run("admin may ask about another role", func(t *testing.T) {
		jsonBody, _ := json.Marshal(EnforceRequest{Role: "employee", Resource: "employee", Action: "read"})
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", "admin")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "employee", service.lastRole)
	})
}
