package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-hrms/internal/authz"
	"go-hrms/internal/domain"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const employeeCodeCounter = "employee_code"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]EmployeeResponse, error)
	Team(ctx context.Context, actor domain.Actor) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (EmployeeResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Terminate(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	Dashboard(ctx context.Context, actor domain.Actor, id uuid.UUID, month, year int) (DashboardResponse, error)
}

type ServiceConfig struct {
	DefaultPassword string
	BcryptCost      int
}

type service struct {
	db      *gorm.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	authz   authz.Engine
	cfg     ServiceConfig
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counter counter.Repository,
	outbox kafka.OutboxRepository,
	engine authz.Engine,
	cfg ServiceConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outbox,
		authz:   engine,
		cfg:     cfg,
		now:     time.Now,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.String("email", req.Email),
	)

	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return EmployeeResponse{}, err
	}

	role := domain.RoleEmployee
	if req.Role != "" {
		r, ok := domain.ParseRole(req.Role)
		if !ok {
			return EmployeeResponse{}, employeeerrors.ErrRoleNotAssignable
		}
		role = r
	}
	if err := ensureRoleAssignable(actor, role); err != nil {
		s.logger.Warn("create employee role not assignable",
			zap.String("actor_role", actor.Role.String()),
			zap.String("role", role.String()),
		)
		return EmployeeResponse{}, err
	}

	now := s.now()
	joiningDate := truncateDate(now)
	if req.JoiningDate != "" {
		d, err := time.Parse(time.DateOnly, req.JoiningDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = d
	}

	password := req.Password
	if password == "" {
		password = s.cfg.DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:                   uuid.New(),
		EmployeeCode:         strings.TrimSpace(req.EmployeeCode),
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                req.Phone,
		PasswordHash:         string(hash),
		Role:                 role.String(),
		DepartmentID:         uuidPtr(req.DepartmentID),
		Designation:          req.Designation,
		Status:               StatusActive,
		ManagerID:            uuidPtr(req.ManagerID),
		BasicSalary:          req.BasicSalary,
		Allowances:           req.Allowances,
		Deductions:           req.Deductions,
		LeaveBalanceAnnual:   DefaultAnnualLeave,
		LeaveBalanceSick:     DefaultSickLeave,
		LeaveBalancePersonal: DefaultPersonalLeave,
		Address:              req.Address,
		EmergencyContact:     req.EmergencyContact,
		JoiningDate:          joiningDate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := s.checkReferences(ctx, qtx, empl); err != nil {
			return err
		}

		if empl.EmployeeCode == "" {
			year := joiningDate.Year()
			seq, err := s.counter.WithTx(tx).GetNextValue(ctx, employeeCodeCounter, strconv.Itoa(year))
			if err != nil {
				s.logger.Error("create employee generate code failed", zap.Error(err))
				return err
			}
			empl.EmployeeCode = fmt.Sprintf("EMP%d%04d", year, seq)
		}

		if err := qtx.Create(ctx, empl); err != nil {
			s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}

		event := events.EmployeeCreatedEvent{
			EventType:    events.EventEmployeeCreated,
			RequestID:    rid,
			EmployeeID:   empl.ID.String(),
			EmployeeCode: empl.EmployeeCode,
			Role:         empl.Role,
			DepartmentID: uuidToString(empl.DepartmentID),
			CreatedBy:    actor.ID.String(),
			OccurredAt:   now.UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), event.EventType, events.EmployeeCreatedTopic, event)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)
	return mapToResponse(*empl), nil
}

// List returns everyone for hr and above, the direct team plus self for
// managers and only the caller for plain employees.
func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]EmployeeResponse, error) {
	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("list employees requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("actor_role", actor.Role.String()),
	)

	switch {
	case domain.AtLeast(actor.Role, domain.RoleHR):
		empls, err := s.repo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("list employees failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return mapToListResponse(empls), nil

	case actor.Role == domain.RoleManager:
		self, err := s.repo.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		team, err := s.repo.FindByManager(ctx, actor.ID)
		if err != nil {
			s.logger.Error("list team failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return mapToListResponse(append([]Employee{*self}, team...)), nil

	default:
		self, err := s.repo.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		return []EmployeeResponse{mapToResponse(*self)}, nil
	}
}

func (s *service) Team(ctx context.Context, actor domain.Actor) ([]EmployeeResponse, error) {
	s.logger.Debug("list team requested", zap.String("manager_id", actor.ID.String()))
	team, err := s.repo.FindByManager(ctx, actor.ID)
	if err != nil {
		s.logger.Error("list team failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(team), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (EmployeeResponse, error) {
	s.logger.Debug("get employee requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", id.String()),
	)

	if err := s.authz.Authorize(ctx, actor, id, authz.ActionRead); err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	fields := req.ChangedFields()
	s.logger.Debug("update employee requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", id.String()),
		zap.Strings("fields", fields),
	)
	if len(fields) == 0 {
		return EmployeeResponse{}, employeeerrors.ErrNoFieldsToUpdate
	}

	if err := s.authz.AuthorizeUpdate(ctx, actor, id, fields); err != nil {
		s.logger.Warn("update employee denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("employee_id", id.String()),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	// role di token bisa sudah basi
	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if req.Role != nil || req.DepartmentID != nil {
		if !domain.AtLeast(actor.Role, domain.RoleAdmin) {
			return EmployeeResponse{}, employeeerrors.ErrAdminOnlyField
		}
	}
	if req.Role != nil {
		role, _ := domain.ParseRole(*req.Role)
		if err := ensureRoleAssignable(actor, role); err != nil {
			return EmployeeResponse{}, err
		}
	}

	var updated Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		empl, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if empl.Status == StatusTerminated {
			return employeeerrors.ErrEmployeeTerminated
		}

		applyUpdate(empl, req)

		if req.ManagerID != nil && empl.ManagerID != nil {
			if err := s.authz.EnsureNoCycle(ctx, empl.ID, *empl.ManagerID); err != nil {
				return err
			}
		}
		if err := s.checkReferences(ctx, qtx, empl); err != nil {
			return err
		}

		if err := qtx.Update(ctx, empl); err != nil {
			s.logger.Error("update employee persist failed", zap.Error(err))
			return mapRepositoryError(err)
		}
		updated = *empl
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("update employee success",
		zap.String("employee_id", id.String()),
		zap.Strings("fields", fields),
	)
	return mapToResponse(updated), nil
}

// Terminate is a soft delete: the record stays but drops out of listings.
func (s *service) Terminate(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	s.logger.Debug("terminate employee requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", id.String()),
	)
	if actor.ID == id {
		return employeeerrors.ErrCannotTerminateSelf
	}
	if err := s.authz.Authorize(ctx, actor, id, authz.ActionDelete); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		empl, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if empl.Status == StatusTerminated {
			return employeeerrors.ErrEmployeeTerminated
		}
		empl.Status = StatusTerminated
		return mapRepositoryError(qtx.Update(ctx, empl))
	})
	if err != nil {
		s.logger.Warn("terminate employee failed", zap.String("employee_id", id.String()), zap.Error(err))
		return err
	}

	s.logger.Info("terminate employee success", zap.String("employee_id", id.String()))
	return nil
}

func (s *service) Dashboard(ctx context.Context, actor domain.Actor, id uuid.UUID, month, year int) (DashboardResponse, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 || year < 2020 {
		return DashboardResponse{}, employeeerrors.ErrInvalidPeriod
	}

	if err := s.authz.Authorize(ctx, actor, id, authz.ActionRead); err != nil {
		return DashboardResponse{}, err
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DashboardResponse{}, mapRepositoryError(err)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	stats, err := s.repo.DashboardStats(ctx, id, from, to)
	if err != nil {
		s.logger.Error("dashboard stats failed", zap.String("employee_id", id.String()), zap.Error(err))
		return DashboardResponse{}, err
	}

	resp := mapToResponse(*empl)
	out := DashboardResponse{
		Employee: resp,
		Month:    month,
		Year:     year,
		Attendance: DashboardAttendance{
			Days:        stats.AttendanceDays,
			Late:        stats.LateDays,
			HoursWorked: stats.HoursWorked,
		},
		PendingLeaves: stats.PendingLeaves,
		LeaveTaken:    stats.LeaveTakenYTD,
		LeaveBalance:  resp.LeaveBalance,
	}
	if p := stats.LatestPayroll; p != nil {
		out.LatestPayroll = &DashboardPayroll{
			Month:         p.PeriodMonth,
			Year:          p.PeriodYear,
			NetSalary:     p.NetSalary,
			PaymentStatus: p.PaymentStatus,
		}
	}
	return out, nil
}

// checkReferences validates the manager and department the record points at.
func (s *service) checkReferences(ctx context.Context, qtx Repository, empl *Employee) error {
	if empl.ManagerID != nil {
		if *empl.ManagerID == empl.ID {
			return employeeerrors.ErrManagerNotFound
		}
		mgr, err := qtx.FindByID(ctx, *empl.ManagerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrManagerNotFound
			}
			return err
		}
		if mgr.Status == StatusTerminated {
			return employeeerrors.ErrManagerNotFound
		}
	}

	if empl.DepartmentID != nil {
		ok, err := qtx.DepartmentIsActive(ctx, *empl.DepartmentID)
		if err != nil {
			return err
		}
		if !ok {
			return employeeerrors.ErrDepartmentNotFound
		}
	}
	return nil
}

// ensureRoleAssignable: below admin only the default role may be handed out,
// and nobody can grant a role above their own.
func ensureRoleAssignable(actor domain.Actor, role domain.Role) error {
	if role == domain.RoleEmployee {
		return nil
	}
	if !domain.AtLeast(actor.Role, domain.RoleAdmin) {
		return employeeerrors.ErrRoleNotAssignable
	}
	if domain.RoleLevel(role) > domain.RoleLevel(actor.Role) {
		return employeeerrors.ErrRoleNotAssignable
	}
	return nil
}

func applyUpdate(empl *Employee, req UpdateEmployeeRequest) {
	if req.FirstName != nil {
		empl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		empl.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		empl.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		empl.Phone = *req.Phone
	}
	if req.Role != nil {
		empl.Role = strings.ToLower(*req.Role)
	}
	if req.DepartmentID != nil {
		empl.DepartmentID = uuidPtr(*req.DepartmentID)
	}
	if req.Designation != nil {
		empl.Designation = *req.Designation
	}
	if req.ManagerID != nil {
		empl.ManagerID = uuidPtr(*req.ManagerID)
	}
	if req.Status != nil {
		empl.Status = *req.Status
	}
	if req.BasicSalary != nil {
		empl.BasicSalary = *req.BasicSalary
	}
	if req.Allowances != nil {
		empl.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		empl.Deductions = *req.Deductions
	}
	if req.LeaveBalanceAnnual != nil {
		empl.LeaveBalanceAnnual = *req.LeaveBalanceAnnual
	}
	if req.LeaveBalanceSick != nil {
		empl.LeaveBalanceSick = *req.LeaveBalanceSick
	}
	if req.LeaveBalancePersonal != nil {
		empl.LeaveBalancePersonal = *req.LeaveBalancePersonal
	}
	if len(req.Address) > 0 {
		empl.Address = req.Address
	}
	if len(req.EmergencyContact) > 0 {
		empl.EmergencyContact = req.EmergencyContact
	}
	if req.ProfileImage != nil {
		empl.ProfileImage = *req.ProfileImage
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           empl.ID.String(),
		EmployeeCode: empl.EmployeeCode,
		FirstName:    empl.FirstName,
		LastName:     empl.LastName,
		FullName:     empl.FullName(),
		Email:        empl.Email,
		Phone:        empl.Phone,
		Role:         empl.Role,
		DepartmentID: uuidToString(empl.DepartmentID),
		Designation:  empl.Designation,
		Status:       empl.Status,
		ManagerID:    uuidToString(empl.ManagerID),
		BasicSalary:  empl.BasicSalary,
		Allowances:   empl.Allowances,
		Deductions:   empl.Deductions,
		LeaveBalance: LeaveBalanceResponse{
			Annual:   empl.LeaveBalanceAnnual,
			Sick:     empl.LeaveBalanceSick,
			Personal: empl.LeaveBalancePersonal,
		},
		Address:          empl.Address,
		EmergencyContact: empl.EmergencyContact,
		ProfileImage:     empl.ProfileImage,
		JoiningDate:      empl.JoiningDate.Format(time.DateOnly),
		CreatedAt:        empl.CreatedAt.Format(time.RFC3339),
	}
	if empl.LastLoginAt != nil {
		resp.LastLoginAt = empl.LastLoginAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
