package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/config"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	ComputeAndStore(ctx context.Context, actor domain.Actor, req CreatePayrollRequest) (PayrollResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdatePayrollRequest) (PayrollResponse, error)
	ProcessPayment(ctx context.Context, actor domain.Actor, id uuid.UUID, req ProcessPaymentRequest) (PayrollResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]PayrollResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]PayrollResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (PayrollResponse, error)
	Export(ctx context.Context, actor domain.Actor, month, year int, w io.Writer) error
	GeneratePayslip(ctx context.Context, id uuid.UUID) (string, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	authz    authz.Engine
	store    storage.Store
	currency string
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	engine authz.Engine,
	store storage.Store,
	cfg config.PayrollConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outbox,
		authz:    engine,
		store:    store,
		currency: currency,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) ComputeAndStore(ctx context.Context, actor domain.Actor, req CreatePayrollRequest) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("compute payroll requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.PeriodMonth),
		zap.Int("year", req.PeriodYear),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	if req.PeriodMonth < 1 || req.PeriodMonth > 12 || req.PeriodYear < 2020 {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}
	if err := s.authz.Authorize(ctx, actor, employeeID, authz.ActionModifyAny); err != nil {
		s.logger.Warn("compute payroll denied",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.ID.String()),
		)
		return PayrollResponse{}, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = MethodBankTransfer
	}
	rec := &Record{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		PeriodMonth:   req.PeriodMonth,
		PeriodYear:    req.PeriodYear,
		WorkingDays:   req.WorkingDays,
		OvertimeHours: req.OvertimeHours,
		PaymentStatus: StatusPending,
		PaymentMethod: method,
		Notes:         req.Notes,
		CreatedBy:     actor.ID,
	}
	applyAllowances(rec, req.Allowances)
	applyDeductions(rec, req.Deductions)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsForPeriod(ctx, employeeID, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return err
		}
		if exists {
			return payrollerrors.ErrDuplicatePeriod
		}

		if req.BasicSalary != nil {
			rec.BasicSalary = *req.BasicSalary
		} else {
			basic, err := qtx.EmployeeBasicSalary(ctx, employeeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return payrollerrors.ErrEmployeeNotFound
				}
				return err
			}
			rec.BasicSalary = basic
		}

		if req.PresentDays != nil {
			rec.PresentDays = *req.PresentDays
		} else {
			present, err := qtx.PresentDays(ctx, employeeID, req.PeriodMonth, req.PeriodYear)
			if err != nil {
				return err
			}
			rec.PresentDays = present
		}
		if rec.PresentDays > rec.WorkingDays {
			return payrollerrors.ErrPresentExceedsWorking
		}

		rec.recompute()

		// unique index menahan request paralel untuk periode yang sama
		if err := qtx.Create(ctx, rec); err != nil {
			s.logger.Error("compute payroll persist failed",
				zap.String("request_id", rid),
				zap.Error(err),
			)
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("compute payroll failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	s.logger.Info("compute payroll success",
		zap.String("request_id", rid),
		zap.String("payroll_id", rec.ID.String()),
		zap.Int64("net_salary", rec.NetSalary),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdatePayrollRequest) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var out Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		rec, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := s.authz.Authorize(ctx, actor, rec.EmployeeID, authz.ActionModifyAny); err != nil {
			return err
		}
		if rec.PaymentStatus == StatusPaid {
			return payrollerrors.ErrPaidImmutable
		}

		if req.BasicSalary != nil {
			rec.BasicSalary = *req.BasicSalary
		}
		if req.Allowances != nil {
			applyAllowances(rec, *req.Allowances)
		}
		if req.Deductions != nil {
			applyDeductions(rec, *req.Deductions)
		}
		if req.WorkingDays != nil {
			rec.WorkingDays = *req.WorkingDays
		}
		if req.PresentDays != nil {
			rec.PresentDays = *req.PresentDays
		}
		if req.OvertimeHours != nil {
			rec.OvertimeHours = *req.OvertimeHours
		}
		if req.PaymentStatus != nil {
			rec.PaymentStatus = *req.PaymentStatus
		}
		if req.PaymentMethod != nil {
			rec.PaymentMethod = *req.PaymentMethod
		}
		if req.Notes != nil {
			rec.Notes = *req.Notes
		}
		if rec.PresentDays > rec.WorkingDays {
			return payrollerrors.ErrPresentExceedsWorking
		}

		rec.recompute()

		if err := qtx.Update(ctx, rec); err != nil {
			s.logger.Error("update payroll persist failed",
				zap.String("request_id", rid),
				zap.String("payroll_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		s.logger.Warn("update payroll failed",
			zap.String("request_id", rid),
			zap.String("payroll_id", id.String()),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	s.logger.Info("update payroll success", zap.String("payroll_id", id.String()))
	return mapToResponse(out), nil
}

// ProcessPayment marks a record paid exactly once. A repeated call returns
// ErrAlreadyPaid and leaves the record untouched.
func (s *service) ProcessPayment(ctx context.Context, actor domain.Actor, id uuid.UUID, req ProcessPaymentRequest) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("process payment requested",
		zap.String("request_id", rid),
		zap.String("payroll_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	var out Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		rec, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := s.authz.Authorize(ctx, actor, rec.EmployeeID, authz.ActionModifyAny); err != nil {
			return err
		}
		if rec.PaymentStatus == StatusPaid {
			return payrollerrors.ErrAlreadyPaid
		}

		now := s.now().UTC()
		approver := actor.ID
		var txnID *string
		if req.TransactionID != "" {
			v := req.TransactionID
			txnID = &v
		}

		ok, err := qtx.MarkPaid(ctx, id, map[string]any{
			"payment_status": StatusPaid,
			"payment_date":   now,
			"payment_method": req.PaymentMethod,
			"transaction_id": txnID,
			"approved_by":    approver,
			"approved_at":    now,
			"updated_at":     now,
		})
		if err != nil {
			s.logger.Error("process payment persist failed",
				zap.String("request_id", rid),
				zap.String("payroll_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		if !ok {
			return payrollerrors.ErrAlreadyPaid
		}

		rec.PaymentStatus = StatusPaid
		rec.PaymentDate = &now
		rec.PaymentMethod = req.PaymentMethod
		rec.TransactionID = txnID
		rec.ApprovedBy = &approver
		rec.ApprovedAt = &now

		event := events.PayrollPaidEvent{
			EventType:  events.EventPayrollPaid,
			RequestID:  rid,
			PayrollID:  rec.ID.String(),
			EmployeeID: rec.EmployeeID.String(),
			PaidBy:     actor.ID.String(),
			OccurredAt: now,
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "payroll", rec.ID.String(), event.EventType, events.PayrollPaidTopic, event)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("payroll paid outbox persist failed",
				zap.String("payroll_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		s.logger.Warn("process payment failed",
			zap.String("request_id", rid),
			zap.String("payroll_id", id.String()),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	s.logger.Info("process payment success",
		zap.String("request_id", rid),
		zap.String("payroll_id", id.String()),
		zap.Int64("net_salary", out.NetSalary),
	)
	return mapToResponse(out), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]PayrollResponse, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if filter.EmployeeID != "" && scope != nil {
		id, err := uuid.Parse(filter.EmployeeID)
		if err != nil || !slices.Contains(scope, id) {
			return nil, authzerrors.ErrForbidden
		}
	}
	return s.find(ctx, filter, scope)
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]PayrollResponse, error) {
	filter.EmployeeID = ""
	return s.find(ctx, filter, []uuid.UUID{actor.ID})
}

func (s *service) find(ctx context.Context, filter ListFilter, scope []uuid.UUID) ([]PayrollResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter, scope)
	if err != nil {
		s.logger.Error("list payroll failed", zap.Error(err))
		return nil, err
	}
	res := make([]PayrollResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// scopeFor returns nil for hr and above, the team plus self for managers and
// only the caller otherwise.
func (s *service) scopeFor(ctx context.Context, actor domain.Actor) ([]uuid.UUID, error) {
	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	switch {
	case domain.AtLeast(actor.Role, domain.RoleHR):
		return nil, nil
	case actor.Role == domain.RoleManager:
		team, err := s.repo.TeamMemberIDs(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return append([]uuid.UUID{actor.ID}, team...), nil
	default:
		return []uuid.UUID{actor.ID}, nil
	}
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (PayrollResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := s.authz.Authorize(ctx, actor, rec.EmployeeID, authz.ActionRead); err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) Export(ctx context.Context, actor domain.Actor, month, year int, w io.Writer) error {
	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return err
	}
	if !domain.AtLeast(actor.Role, domain.RoleHR) {
		s.logger.Warn("export payroll denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", actor.Role.String()),
		)
		return authzerrors.ErrForbidden
	}
	if month < 1 || month > 12 || year < 2020 {
		return payrollerrors.ErrInvalidPeriod
	}

	rows, err := s.repo.FindAll(ctx, ListFilter{Month: month, Year: year}, nil)
	if err != nil {
		s.logger.Error("export payroll query failed", zap.Error(err))
		return err
	}
	if err := writeRegister(w, month, year, rows); err != nil {
		s.logger.Error("export payroll render failed", zap.Error(err))
		return err
	}

	s.logger.Info("export payroll success",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// GeneratePayslip renders the payslip, uploads it and stores its URL. It runs
// from the payroll.paid consumer, so there is no actor to authorize.
func (s *service) GeneratePayslip(ctx context.Context, id uuid.UUID) (string, error) {
	subject, err := s.repo.FindPayslipSubject(ctx, id)
	if err != nil {
		return "", mapRepositoryError(err)
	}

	pdf, err := renderPayslipPDF(*subject, s.currency)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("payslips/%04d/%02d/%s.pdf", subject.PeriodYear, subject.PeriodMonth, subject.ID)
	info, err := s.store.Save(ctx, key, bytes.NewReader(pdf), "application/pdf")
	if err != nil {
		s.logger.Error("payslip upload failed",
			zap.String("payroll_id", id.String()),
			zap.Error(err),
		)
		return "", err
	}

	if err := s.repo.SetPayslip(ctx, id, info.URL, s.now().UTC()); err != nil {
		return "", mapRepositoryError(err)
	}

	s.logger.Info("payslip generated",
		zap.String("payroll_id", id.String()),
		zap.String("url", info.URL),
		zap.Int64("size", info.Size),
	)
	return info.URL, nil
}

func applyAllowances(r *Record, a Allowances) {
	r.HRA = a.HRA
	r.Transport = a.Transport
	r.Medical = a.Medical
	r.Food = a.Food
	r.Bonus = a.Bonus
	r.Overtime = a.Overtime
	r.OtherAllowance = a.Other
}

func applyDeductions(r *Record, d Deductions) {
	r.Tax = d.Tax
	r.ProvidentFund = d.ProvidentFund
	r.Insurance = d.Insurance
	r.Loan = d.Loan
	r.Advance = d.Advance
	r.OtherDeduction = d.Other
}

func mapToResponse(r Record) PayrollResponse {
	resp := PayrollResponse{
		ID:          r.ID.String(),
		EmployeeID:  r.EmployeeID.String(),
		PeriodMonth: r.PeriodMonth,
		PeriodYear:  r.PeriodYear,
		BasicSalary: r.BasicSalary,
		Allowances: Allowances{
			HRA:       r.HRA,
			Transport: r.Transport,
			Medical:   r.Medical,
			Food:      r.Food,
			Bonus:     r.Bonus,
			Overtime:  r.Overtime,
			Other:     r.OtherAllowance,
		},
		Deductions: Deductions{
			Tax:           r.Tax,
			ProvidentFund: r.ProvidentFund,
			Insurance:     r.Insurance,
			Loan:          r.Loan,
			Advance:       r.Advance,
			Other:         r.OtherDeduction,
		},
		WorkingDays:     r.WorkingDays,
		PresentDays:     r.PresentDays,
		AbsentDays:      r.AbsentDays,
		OvertimeHours:   r.OvertimeHours,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		PaymentStatus:   r.PaymentStatus,
		PaymentMethod:   r.PaymentMethod,
		TransactionID:   r.TransactionID,
		Notes:           r.Notes,
		PayslipURL:      r.PayslipURL,
	}
	if r.PaymentDate != nil {
		v := r.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &v
	}
	if r.ApprovedBy != nil {
		v := r.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if r.ApprovedAt != nil {
		v := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
