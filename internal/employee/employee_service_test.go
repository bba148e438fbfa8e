package employee_test

import (
	"context"
	"errors"
	"testing"

	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	kafkaMock "go-hrms/internal/messaging/kafka/mock"
	"go-hrms/internal/shared/apperror"
	counterMock "go-hrms/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	store   *fakeStore
	counter *counterMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
	service employee.Service
}

func setupServiceTest(t *testing.T, rows ...employee.Employee) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	store := newFakeStore(rows...)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewService(
		db, store, counterRepo, outboxRepo,
		authz.NewEngine(store, zap.NewNop()),
		employee.ServiceConfig{DefaultPassword: "Welcome@123", BcryptCost: bcrypt.MinCost},
		zap.NewNop(),
	)

	return &serviceDeps{
		sqlMock: sqlMock,
		store:   store,
		counter: counterRepo,
		outbox:  outboxRepo,
		service: svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	admin := newEmployee("admin", domain.RoleAdmin, nil)
	hr := newEmployee("hr", domain.RoleHR, nil)

	t.Run("success - generates code and queues event", func(t *testing.T) {
		deps := setupServiceTest(t, admin)
		deptID := uuid.New()
		deps.store.departments[deptID] = true

		expectTx(t, deps.sqlMock, true)
		deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
		deps.counter.EXPECT().
			GetNextValue(gomock.Any(), "employee_code", "2025").
			Return(int64(7), nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeCreatedTopic, ev.Topic)
				assert.Equal(t, events.EventEmployeeCreated, ev.EventType)
				assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
				return nil
			})

		resp, err := deps.service.Create(ctx, actorOf(admin), employee.CreateEmployeeRequest{
			FirstName:    "Jane",
			LastName:     "Doe",
			Email:        "Jane@Example.com",
			DepartmentID: deptID.String(),
			ManagerID:    admin.ID.String(),
			BasicSalary:  800000,
			JoiningDate:  "2025-03-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "EMP20250007", resp.EmployeeCode)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, "employee", resp.Role)
		assert.Equal(t, float64(21), resp.LeaveBalance.Annual)
		assert.Equal(t, float64(10), resp.LeaveBalance.Sick)
		assert.Equal(t, float64(5), resp.LeaveBalance.Personal)

		stored := deps.store.rows[uuid.MustParse(resp.ID)]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Welcome@123")))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("hr cannot create an admin", func(t *testing.T) {
		deps := setupServiceTest(t, hr)

		_, err := deps.service.Create(ctx, actorOf(hr), employee.CreateEmployeeRequest{
			FirstName: "Eve", LastName: "X", Email: "eve@example.com", Role: "admin",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrRoleNotAssignable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown manager rolls back", func(t *testing.T) {
		deps := setupServiceTest(t, admin)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, actorOf(admin), employee.CreateEmployeeRequest{
			FirstName: "Bob", LastName: "X", Email: "bob@example.com", ManagerID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t, admin)
		deps.store.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, actorOf(admin), employee.CreateEmployeeRequest{
			EmployeeCode: "EMP-X1", FirstName: "Bob", LastName: "X", Email: "admin@example.com",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailAlreadyExists)
	})
}

func TestEmployeeService_Update_Authorization(t *testing.T) {
	ctx := context.Background()

	t.Run("employee cannot change another employee's salary", func(t *testing.T) {
		a := newEmployee("alice", domain.RoleEmployee, nil)
		b := newEmployee("bob", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, a, b)

		_, err := deps.service.Update(ctx, actorOf(a), b.ID, employee.UpdateEmployeeRequest{
			BasicSalary: int64Ptr(999999),
		})

		assert.ErrorIs(t, err, authzerrors.ErrForbidden)
		assert.Equal(t, int64(500000), deps.store.rows[b.ID].BasicSalary)
	})

	t.Run("employee can change own phone", func(t *testing.T) {
		a := newEmployee("alice", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, a)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, actorOf(a), a.ID, employee.UpdateEmployeeRequest{
			Phone: strPtr("+62 811 000"),
		})

		require.NoError(t, err)
		assert.Equal(t, "+62 811 000", resp.Phone)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee cannot change own salary", func(t *testing.T) {
		a := newEmployee("alice", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, a)

		_, err := deps.service.Update(ctx, actorOf(a), a.ID, employee.UpdateEmployeeRequest{
			Phone:       strPtr("+62 811 000"),
			BasicSalary: int64Ptr(1),
		})

		require.ErrorIs(t, err, authzerrors.ErrFieldsNotPermitted)
		details := authzErrDetails(t, err)
		assert.Equal(t, []string{"basic_salary"}, details)
		assert.Equal(t, int64(500000), deps.store.rows[a.ID].BasicSalary)
	})

	t.Run("hr cannot change role", func(t *testing.T) {
		hr := newEmployee("hr", domain.RoleHR, nil)
		a := newEmployee("alice", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, hr, a)

		_, err := deps.service.Update(ctx, actorOf(hr), a.ID, employee.UpdateEmployeeRequest{
			Role: strPtr("manager"),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrAdminOnlyField)
	})

	t.Run("hr can change salary", func(t *testing.T) {
		hr := newEmployee("hr", domain.RoleHR, nil)
		a := newEmployee("alice", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, hr, a)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, actorOf(hr), a.ID, employee.UpdateEmployeeRequest{
			BasicSalary: int64Ptr(650000),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(650000), resp.BasicSalary)
	})

	t.Run("manager reassignment that creates a cycle is rejected", func(t *testing.T) {
		admin := newEmployee("admin", domain.RoleAdmin, nil)
		lead := newEmployee("lead", domain.RoleManager, nil)
		report := newEmployee("report", domain.RoleEmployee, &lead.ID)
		deps := setupServiceTest(t, admin, lead, report)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, actorOf(admin), lead.ID, employee.UpdateEmployeeRequest{
			ManagerID: strPtr(report.ID.String()),
		})

		assert.ErrorIs(t, err, authzerrors.ErrManagerCycle)
		assert.Nil(t, deps.store.rows[lead.ID].ManagerID)
	})

	t.Run("terminated employee cannot be edited", func(t *testing.T) {
		admin := newEmployee("admin", domain.RoleAdmin, nil)
		gone := newEmployee("gone", domain.RoleEmployee, nil)
		gone.Status = employee.StatusTerminated
		deps := setupServiceTest(t, admin, gone)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, actorOf(admin), gone.ID, employee.UpdateEmployeeRequest{
			Designation: strPtr("Engineer"),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeTerminated)
	})

	t.Run("empty request", func(t *testing.T) {
		a := newEmployee("alice", domain.RoleEmployee, nil)
		deps := setupServiceTest(t, a)

		_, err := deps.service.Update(ctx, actorOf(a), a.ID, employee.UpdateEmployeeRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrNoFieldsToUpdate)
	})
}

func authzErrDetails(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	fields, _ := details["fields"].([]string)
	return fields
}

func TestEmployeeService_DemotedAdminWithLiveToken(t *testing.T) {
	ctx := context.Background()
	admin := newEmployee("admin", domain.RoleAdmin, nil)
	target := newEmployee("target", domain.RoleEmployee, nil)
	deps := setupServiceTest(t, admin, target)
	token := actorOf(admin)

	row := deps.store.rows[admin.ID]
	row.Role = domain.RoleHR.String()
	deps.store.rows[admin.ID] = row

	_, err := deps.service.Update(ctx, token, target.ID, employee.UpdateEmployeeRequest{
		Role: strPtr("admin"),
	})
	assert.ErrorIs(t, err, employeeerrors.ErrAdminOnlyField)
	assert.Equal(t, "employee", deps.store.rows[target.ID].Role)

	_, err = deps.service.Create(ctx, token, employee.CreateEmployeeRequest{
		FirstName: "Eve", LastName: "X", Email: "eve@example.com", Role: "manager",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrRoleNotAssignable)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Terminate(t *testing.T) {
	ctx := context.Background()
	admin := newEmployee("admin", domain.RoleAdmin, nil)
	hr := newEmployee("hr", domain.RoleHR, nil)
	a := newEmployee("alice", domain.RoleEmployee, nil)

	t.Run("admin terminates", func(t *testing.T) {
		deps := setupServiceTest(t, admin, a)
		expectTx(t, deps.sqlMock, true)

		require.NoError(t, deps.service.Terminate(ctx, actorOf(admin), a.ID))
		assert.Equal(t, employee.StatusTerminated, deps.store.rows[a.ID].Status)

		list, err := deps.service.List(ctx, actorOf(admin), employee.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("hr cannot delete", func(t *testing.T) {
		deps := setupServiceTest(t, hr, a)

		err := deps.service.Terminate(ctx, actorOf(hr), a.ID)

		assert.ErrorIs(t, err, authzerrors.ErrForbidden)
		assert.Equal(t, employee.StatusActive, deps.store.rows[a.ID].Status)
	})

	t.Run("cannot terminate self", func(t *testing.T) {
		deps := setupServiceTest(t, admin)

		assert.ErrorIs(t, deps.service.Terminate(ctx, actorOf(admin), admin.ID), employeeerrors.ErrCannotTerminateSelf)
	})
}

func TestEmployeeService_ReadScope(t *testing.T) {
	ctx := context.Background()
	mgr := newEmployee("mgr", domain.RoleManager, nil)
	report := newEmployee("report", domain.RoleEmployee, &mgr.ID)
	other := newEmployee("other", domain.RoleEmployee, nil)

	deps := setupServiceTest(t, mgr, report, other)

	t.Run("manager reads direct report", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, actorOf(mgr), report.ID)
		assert.NoError(t, err)
	})

	t.Run("manager reads self", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, actorOf(mgr), mgr.ID)
		assert.NoError(t, err)
	})

	t.Run("manager cannot read outside team", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, actorOf(mgr), other.ID)
		assert.ErrorIs(t, err, authzerrors.ErrForbidden)
	})

	t.Run("list scope per role", func(t *testing.T) {
		mine, err := deps.service.List(ctx, actorOf(other), employee.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		assert.Equal(t, other.ID.String(), mine[0].ID)

		team, err := deps.service.List(ctx, actorOf(mgr), employee.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, team, 2)

		direct, err := deps.service.Team(ctx, actorOf(mgr))
		require.NoError(t, err)
		assert.Len(t, direct, 1)
		assert.Equal(t, report.ID.String(), direct[0].ID)
	})

	t.Run("unknown actor", func(t *testing.T) {
		ghost := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
		_, err := deps.service.GetByID(ctx, ghost, report.ID)
		assert.ErrorIs(t, err, authzerrors.ErrActorNotFound)
	})
}

func TestEmployeeService_Dashboard(t *testing.T) {
	ctx := context.Background()
	a := newEmployee("alice", domain.RoleEmployee, nil)
	deps := setupServiceTest(t, a)
	deps.store.stats = employee.DashboardStats{
		AttendanceDays: 18,
		LateDays:       2,
		HoursWorked:    141.5,
		PendingLeaves:  1,
		LeaveTakenYTD:  4,
		LatestPayroll:  &employee.PayrollSnapshot{PeriodMonth: 2, PeriodYear: 2025, NetSalary: 450000, PaymentStatus: "paid"},
	}

	resp, err := deps.service.Dashboard(ctx, actorOf(a), a.ID, 3, 2025)

	require.NoError(t, err)
	assert.Equal(t, int64(18), resp.Attendance.Days)
	assert.Equal(t, 141.5, resp.Attendance.HoursWorked)
	assert.Equal(t, int64(450000), resp.LatestPayroll.NetSalary)
	assert.Equal(t, float64(21), resp.LeaveBalance.Annual)

	_, err = deps.service.Dashboard(ctx, actorOf(a), a.ID, 13, 2025)
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidPeriod)

}
