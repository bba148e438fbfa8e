package payroll_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/middleware"
	"go-hrms/internal/payroll"
	payrollerrors "go-hrms/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayrollService struct {
	payroll.Service
	createFn  func(ctx context.Context, actor domain.Actor, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error)
	payFn     func(ctx context.Context, actor domain.Actor, id uuid.UUID, req payroll.ProcessPaymentRequest) (payroll.PayrollResponse, error)
	getByIDFn func(ctx context.Context, actor domain.Actor, id uuid.UUID) (payroll.PayrollResponse, error)
	exportFn  func(ctx context.Context, actor domain.Actor, month, year int, w io.Writer) error
}

func (f *fakePayrollService) ComputeAndStore(ctx context.Context, actor domain.Actor, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakePayrollService) ProcessPayment(ctx context.Context, actor domain.Actor, id uuid.UUID, req payroll.ProcessPaymentRequest) (payroll.PayrollResponse, error) {
	return f.payFn(ctx, actor, id, req)
}
func (f *fakePayrollService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakePayrollService) Export(ctx context.Context, actor domain.Actor, month, year int, w io.Writer) error {
	return f.exportFn(ctx, actor, month, year, w)
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

func TestPayrollHandler_Create(t *testing.T) {
	actorID := uuid.New()
	employeeID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := &fakePayrollService{createFn: func(ctx context.Context, actor domain.Actor, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, domain.RoleHR, actor.Role)
			assert.Equal(t, int64(25000), req.Allowances.HRA)
			return payroll.PayrollResponse{ID: uuid.NewString(), NetSalary: 525000, PaymentStatus: payroll.StatusPending}, nil
		}}
		h := payroll.NewHandler(svc)

		body := `{"employee_id":"` + employeeID.String() + `","period_month":4,"period_year":2025,"working_days":21,"allowances":{"hra":25000}}`
		c, w := newContext(http.MethodPost, "/payrolls", body, actorID, "hr")
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"net_salary":525000`)
	})

	t.Run("negative allowance fails validation", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})

		body := `{"employee_id":"` + employeeID.String() + `","period_month":4,"period_year":2025,"allowances":{"bonus":-1}}`
		c, w := newContext(http.MethodPost, "/payrolls", body, actorID, "hr")
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("duplicate period", func(t *testing.T) {
		svc := &fakePayrollService{createFn: func(ctx context.Context, actor domain.Actor, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrDuplicatePeriod
		}}
		h := payroll.NewHandler(svc)

		body := `{"employee_id":"` + employeeID.String() + `","period_month":4,"period_year":2025,"working_days":21}`
		c, w := newContext(http.MethodPost, "/payrolls", body, actorID, "hr")
		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPayrollHandler_Pay(t *testing.T) {
	actorID := uuid.New()
	id := uuid.New()

	t.Run("already paid", func(t *testing.T) {
		svc := &fakePayrollService{payFn: func(ctx context.Context, actor domain.Actor, got uuid.UUID, req payroll.ProcessPaymentRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, id, got)
			return payroll.PayrollResponse{}, payrollerrors.ErrAlreadyPaid
		}}
		h := payroll.NewHandler(svc)

		c, w := newContext(http.MethodPost, "/payrolls/"+id.String()+"/pay", `{"payment_method":"cash"}`, actorID, "hr")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.Pay(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := payroll.NewHandler(&fakePayrollService{})

		c, w := newContext(http.MethodPost, "/payrolls/x/pay", `{"payment_method":"cash"}`, actorID, "hr")
		c.Params = gin.Params{{Key: "id", Value: "x"}}
		h.Pay(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_DownloadPayslip(t *testing.T) {
	actorID := uuid.New()
	id := uuid.New()

	t.Run("redirects to stored file", func(t *testing.T) {
		url := "https://cdn.example.com/payslips/2025/03/" + id.String() + ".pdf"
		svc := &fakePayrollService{getByIDFn: func(ctx context.Context, actor domain.Actor, got uuid.UUID) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{ID: got.String(), PayslipURL: &url}, nil
		}}
		h := payroll.NewHandler(svc)

		c, w := newContext(http.MethodGet, "/payrolls/"+id.String()+"/payslip", "", actorID, "employee")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, url, w.Header().Get("Location"))
	})

	t.Run("not generated yet", func(t *testing.T) {
		svc := &fakePayrollService{getByIDFn: func(ctx context.Context, actor domain.Actor, got uuid.UUID) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{ID: got.String()}, nil
		}}
		h := payroll.NewHandler(svc)

		c, w := newContext(http.MethodGet, "/payrolls/"+id.String()+"/payslip", "", actorID, "employee")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("someone else's payslip", func(t *testing.T) {
		svc := &fakePayrollService{getByIDFn: func(ctx context.Context, actor domain.Actor, got uuid.UUID) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, authzerrors.ErrForbidden
		}}
		h := payroll.NewHandler(svc)

		c, w := newContext(http.MethodGet, "/payrolls/"+id.String()+"/payslip", "", actorID, "employee")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPayrollHandler_Export(t *testing.T) {
	svc := &fakePayrollService{exportFn: func(ctx context.Context, actor domain.Actor, month, year int, w io.Writer) error {
		assert.Equal(t, 3, month)
		assert.Equal(t, 2025, year)
		_, err := w.Write([]byte("PK-workbook"))
		return err
	}}
	h := payroll.NewHandler(svc)

	c, w := newContext(http.MethodGet, "/payrolls/export?month=3&year=2025", "", uuid.New(), "hr")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="payroll-2025-03.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, "PK-workbook", w.Body.String())
}
