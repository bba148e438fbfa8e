package employee_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn    func(ctx context.Context, actor domain.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	ListFn      func(ctx context.Context, actor domain.Actor, filter employee.ListFilter) ([]employee.EmployeeResponse, error)
	TeamFn      func(ctx context.Context, actor domain.Actor) ([]employee.EmployeeResponse, error)
	GetByIDFn   func(ctx context.Context, actor domain.Actor, id uuid.UUID) (employee.EmployeeResponse, error)
	UpdateFn    func(ctx context.Context, actor domain.Actor, id uuid.UUID, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	TerminateFn func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	DashboardFn func(ctx context.Context, actor domain.Actor, id uuid.UUID, month, year int) (employee.DashboardResponse, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, actor domain.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, actor, req)
}
func (f *fakeEmployeeService) List(ctx context.Context, actor domain.Actor, filter employee.ListFilter) ([]employee.EmployeeResponse, error) {
	return f.ListFn(ctx, actor, filter)
}
func (f *fakeEmployeeService) Team(ctx context.Context, actor domain.Actor) ([]employee.EmployeeResponse, error) {
	return f.TeamFn(ctx, actor)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, actor, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, actor, id, req)
}
func (f *fakeEmployeeService) Terminate(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return f.TerminateFn(ctx, actor, id)
}
func (f *fakeEmployeeService) Dashboard(ctx context.Context, actor domain.Actor, id uuid.UUID, month, year int) (employee.DashboardResponse, error) {
	return f.DashboardFn(ctx, actor, id, month, year)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func setActor(c *gin.Context, id uuid.UUID, role domain.Role) {
	c.Set(middleware.ContextEmployeeID, id.String())
	c.Set(middleware.ContextRole, role.String())
}

func TestEmployeeHandler_Create(t *testing.T) {
	actorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, actor domain.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, actorID, actor.ID)
				assert.Equal(t, domain.RoleHR, actor.Role)
				assert.Equal(t, "John", req.FirstName)
				return employee.EmployeeResponse{ID: uuid.NewString(), EmployeeCode: "EMP20260001", FirstName: req.FirstName}, nil
			},
		}
		h := employee.NewHandler(svc)

		c, w := newTestContext(http.MethodPost, "/api/v1/employees",
			`{"first_name":"John","last_name":"Doe","email":"john@example.com","basic_salary":500000}`)
		setActor(c, actorID, domain.RoleHR)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "EMP20260001")
	})

	t.Run("validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", `{"first_name":"John"}`)
		setActor(c, actorID, domain.RoleHR)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("missing actor", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", `{}`)

		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, actor domain.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmailAlreadyExists
			},
		}
		h := employee.NewHandler(svc)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees",
			`{"first_name":"John","last_name":"Doe","email":"john@example.com"}`)
		setActor(c, actorID, domain.RoleAdmin)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})

	t.Run("service error is not leaked", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, actor domain.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("database connection failed")
			},
		}
		h := employee.NewHandler(svc)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees",
			`{"first_name":"John","last_name":"Doe","email":"john@example.com"}`)
		setActor(c, actorID, domain.RoleAdmin)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "database connection failed")
	})
}

func TestEmployeeHandler_List(t *testing.T) {
	svc := &fakeEmployeeService{
		ListFn: func(ctx context.Context, actor domain.Actor, filter employee.ListFilter) ([]employee.EmployeeResponse, error) {
			assert.Equal(t, "eng", filter.Query)
			out := make([]employee.EmployeeResponse, 15)
			for i := range out {
				out[i] = employee.EmployeeResponse{ID: uuid.NewString()}
			}
			return out, nil
		},
	}
	h := employee.NewHandler(svc)
	c, w := newTestContext(http.MethodGet, "/api/v1/employees?q=eng&page=2&page_size=10", "")
	setActor(c, uuid.New(), domain.RoleHR)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":15`)
	assert.Contains(t, w.Body.String(), `"page":2`)
}

func TestEmployeeHandler_Update(t *testing.T) {
	targetID := uuid.New()

	t.Run("forbidden fields carry details", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, targetID, id)
				return employee.EmployeeResponse{}, authzerrors.FieldsNotPermitted([]string{"basic_salary"})
			},
		}
		h := employee.NewHandler(svc)
		c, w := newTestContext(http.MethodPatch, "/api/v1/employees/"+targetID.String(), `{"basic_salary":1}`)
		c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
		setActor(c, targetID, domain.RoleEmployee)

		h.Update(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "basic_salary")
	})

	t.Run("invalid id", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPatch, "/api/v1/employees/abc", `{"phone":"1"}`)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		setActor(c, targetID, domain.RoleEmployee)

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid employee ID")
	})
}

func TestEmployeeHandler_Terminate(t *testing.T) {
	targetID := uuid.New()
	svc := &fakeEmployeeService{
		TerminateFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
			if actor.Role != domain.RoleAdmin {
				return authzerrors.ErrForbidden
			}
			return nil
		},
	}
	h := employee.NewHandler(svc)

	c, w := newTestContext(http.MethodDelete, "/api/v1/employees/"+targetID.String(), "")
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	setActor(c, uuid.New(), domain.RoleAdmin)
	h.Terminate(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodDelete, "/api/v1/employees/"+targetID.String(), "")
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	setActor(c, uuid.New(), domain.RoleHR)
	h.Terminate(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEmployeeHandler_Dashboard(t *testing.T) {
	id := uuid.New()
	svc := &fakeEmployeeService{
		DashboardFn: func(ctx context.Context, actor domain.Actor, eid uuid.UUID, month, year int) (employee.DashboardResponse, error) {
			assert.Equal(t, 3, month)
			assert.Equal(t, 2026, year)
			return employee.DashboardResponse{Month: month, Year: year}, nil
		},
	}
	h := employee.NewHandler(svc)
	c, w := newTestContext(http.MethodGet, "/api/v1/employees/"+id.String()+"/dashboard?month=3&year=2026", "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setActor(c, id, domain.RoleEmployee)

	h.Dashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
