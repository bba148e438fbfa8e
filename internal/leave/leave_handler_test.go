package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/domain"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	applyFn    func(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	updateFn   func(ctx context.Context, actor domain.Actor, id uuid.UUID, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	processFn  func(ctx context.Context, actor domain.Actor, id uuid.UUID, req leave.ProcessLeaveRequest) (leave.LeaveResponse, error)
	cancelFn   func(ctx context.Context, actor domain.Actor, id uuid.UUID) (leave.LeaveResponse, error)
	listFn     func(ctx context.Context, actor domain.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	listMineFn func(ctx context.Context, actor domain.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	getByIDFn  func(ctx context.Context, actor domain.Actor, id uuid.UUID) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Apply(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, actor, req)
}
func (f *fakeLeaveService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Process(ctx context.Context, actor domain.Actor, id uuid.UUID, req leave.ProcessLeaveRequest) (leave.LeaveResponse, error) {
	return f.processFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actor, id)
}
func (f *fakeLeaveService) List(ctx context.Context, actor domain.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.listFn(ctx, actor, filter)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, actor domain.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, actor, filter)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}

func newContext(method, target, body string, actorID uuid.UUID, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if actorID != uuid.Nil {
		c.Set(middleware.ContextEmployeeID, actorID.String())
		c.Set(middleware.ContextRole, role)
	}
	return c, w
}

func TestLeaveHandler_Apply(t *testing.T) {
	actorID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{applyFn: func(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, actorID, actor.ID)
			assert.Equal(t, "annual", req.LeaveType)
			return leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending, TotalDays: 2}, nil
		}}
		h := leave.NewHandler(svc)

		body := `{"leave_type":"annual","start_date":"2025-04-07","end_date":"2025-04-08","reason":"trip"}`
		c, w := newContext(http.MethodPost, "/leaves", body, actorID, "employee")
		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("unknown leave type fails validation", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})

		body := `{"leave_type":"sabbatical","start_date":"2025-04-07","end_date":"2025-04-08","reason":"trip"}`
		c, w := newContext(http.MethodPost, "/leaves", body, actorID, "employee")
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("invalid range surfaces as 400", func(t *testing.T) {
		svc := &fakeLeaveService{applyFn: func(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidDateRange
		}}
		h := leave.NewHandler(svc)

		body := `{"leave_type":"annual","start_date":"2025-04-08","end_date":"2025-04-07","reason":"trip"}`
		c, w := newContext(http.MethodPost, "/leaves", body, actorID, "employee")
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient balance is 422", func(t *testing.T) {
		svc := &fakeLeaveService{applyFn: func(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}}
		h := leave.NewHandler(svc)

		body := `{"leave_type":"annual","start_date":"2025-04-07","end_date":"2025-04-30","reason":"trip"}`
		c, w := newContext(http.MethodPost, "/leaves", body, actorID, "employee")
		h.Apply(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "BUSINESS_RULE")
	})

	t.Run("no actor", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodPost, "/leaves", `{}`, uuid.Nil, "")
		h.Apply(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLeaveHandler_Process(t *testing.T) {
	managerID := uuid.New()
	leaveID := uuid.New()

	t.Run("approve", func(t *testing.T) {
		svc := &fakeLeaveService{processFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID, req leave.ProcessLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, leaveID, id)
			assert.Equal(t, domain.RoleManager, actor.Role)
			assert.Equal(t, leave.DecisionApprove, req.Decision)
			return leave.LeaveResponse{ID: id.String(), Status: leave.StatusApproved}, nil
		}}
		h := leave.NewHandler(svc)

		c, w := newContext(http.MethodPatch, "/leaves/"+leaveID.String()+"/process", `{"decision":"approve"}`, managerID, "manager")
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
		h.Process(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"approved"`)
	})

	t.Run("bad decision", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})

		c, w := newContext(http.MethodPatch, "/leaves/"+leaveID.String()+"/process", `{"decision":"maybe"}`, managerID, "manager")
		c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
		h.Process(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})

		c, w := newContext(http.MethodPatch, "/leaves/abc/process", `{"decision":"approve"}`, managerID, "manager")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		h.Process(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid leave id")
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	actorID := uuid.New()
	leaveID := uuid.New()

	svc := &fakeLeaveService{cancelFn: func(ctx context.Context, actor domain.Actor, id uuid.UUID) (leave.LeaveResponse, error) {
		return leave.LeaveResponse{}, leaveerrors.ErrCannotCancelApproved
	}}
	h := leave.NewHandler(svc)

	c, w := newContext(http.MethodPatch, "/leaves/"+leaveID.String()+"/cancel", "", actorID, "employee")
	c.Params = gin.Params{{Key: "id", Value: leaveID.String()}}
	h.Cancel(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "approved leave cannot be cancelled")
}

func TestLeaveHandler_ListMine(t *testing.T) {
	actorID := uuid.New()

	svc := &fakeLeaveService{listMineFn: func(ctx context.Context, actor domain.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
		assert.Equal(t, leave.StatusPending, filter.Status)
		items := make([]leave.LeaveResponse, 12)
		for i := range items {
			items[i] = leave.LeaveResponse{ID: uuid.NewString()}
		}
		return items, nil
	}}
	h := leave.NewHandler(svc)

	c, w := newContext(http.MethodGet, "/leaves/mine?status=pending&page=2&page_size=10", "", actorID, "employee")
	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":12`)
}
