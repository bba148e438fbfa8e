package leave

import (
	"context"
	"errors"
	"slices"
	"time"

	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateLeaveRequest) (LeaveResponse, error)
	Process(ctx context.Context, actor domain.Actor, id uuid.UUID, req ProcessLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (LeaveResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (LeaveResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	authz  authz.Engine
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	engine authz.Engine,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		authz:  engine,
		now:    time.Now,
		logger: l,
	}
}

// period is a validated leave range with its resolved day count.
type period struct {
	start time.Time
	end   time.Time
	days  float64
}

func resolvePeriod(req ApplyLeaveRequest) (period, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return period{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return period{}, err
	}
	if end.Before(start) {
		return period{}, leaveerrors.ErrInvalidDateRange
	}

	days := InclusiveDays(start, end)
	if req.TotalDays != nil {
		override := *req.TotalDays
		if override < 0.5 || override > days {
			return period{}, leaveerrors.ErrInvalidTotalDays
		}
		days = override
	}
	return period{start: start, end: end, days: days}, nil
}

// checkAvailability rejects overlapping periods and, for balance-tracked
// types, requests exceeding the current balance.
func (s *service) checkAvailability(ctx context.Context, qtx Repository, employeeID uuid.UUID, leaveType string, p period, excludeID *uuid.UUID) error {
	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, p.start, p.end, excludeID)
	if err != nil {
		return err
	}
	if overlap {
		return leaveerrors.ErrLeaveOverlap
	}

	if !IsBalanceTracked(leaveType) {
		return nil
	}
	balance, err := qtx.Balance(ctx, employeeID, leaveType, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrEmployeeNotFound
		}
		return err
	}
	if balance < p.days {
		return leaveerrors.ErrInsufficientBalance.WithDetails(map[string]any{
			"available": balance,
			"requested": p.days,
		})
	}
	return nil
}

func (s *service) Apply(ctx context.Context, actor domain.Actor, req ApplyLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.ID.String()),
		zap.String("leave_type", req.LeaveType),
	)

	p, err := resolvePeriod(req)
	if err != nil {
		s.logger.Warn("apply leave validation failed",
			zap.String("request_id", rid),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	now := s.now().UTC()
	l := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    actor.ID,
		LeaveType:     req.LeaveType,
		StartDate:     p.start,
		EndDate:       p.end,
		TotalDays:     p.days,
		Reason:        req.Reason,
		Status:        StatusPending,
		IsEmergency:   req.IsEmergency,
		HandoverNotes: req.HandoverNotes,
		AppliedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := s.checkAvailability(ctx, qtx, actor.ID, req.LeaveType, p, nil); err != nil {
			return err
		}
		if err := qtx.Create(ctx, l); err != nil {
			s.logger.Error("apply leave persist failed",
				zap.String("request_id", rid),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("apply leave rejected",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.Float64("total_days", l.TotalDays),
	)
	return mapToResponse(*l), nil
}

// Update lets the owner rewrite a request while it is still pending.
func (s *service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	p, err := resolvePeriod(req)
	if err != nil {
		return LeaveResponse{}, err
	}

	var out LeaveRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if l.EmployeeID != actor.ID {
			return leaveerrors.ErrNotLeaveOwner
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrNotPending
		}
		if err := s.checkAvailability(ctx, qtx, l.EmployeeID, req.LeaveType, p, &l.ID); err != nil {
			return err
		}

		l.LeaveType = req.LeaveType
		l.StartDate = p.start
		l.EndDate = p.end
		l.TotalDays = p.days
		l.Reason = req.Reason
		l.IsEmergency = req.IsEmergency
		l.HandoverNotes = req.HandoverNotes

		if err := qtx.Update(ctx, l); err != nil {
			s.logger.Error("update leave persist failed",
				zap.String("request_id", rid),
				zap.String("leave_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		out = *l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave success", zap.String("leave_id", id.String()))
	return mapToResponse(out), nil
}

func (s *service) Process(ctx context.Context, actor domain.Actor, id uuid.UUID, req ProcessLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("process leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.String("decision", req.Decision),
	)

	if req.Decision == DecisionReject && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	var out LeaveRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := s.authz.Authorize(ctx, actor, l.EmployeeID, authz.ActionApprove); err != nil {
			return err
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrNotPending
		}

		now := s.now().UTC()
		changes := map[string]any{"updated_at": now}
		switch req.Decision {
		case DecisionApprove:
			if err := s.deductBalance(ctx, qtx, l); err != nil {
				return err
			}
			approver := actor.ID
			l.Status = StatusApproved
			l.ApprovedBy = &approver
			l.ApprovedAt = &now
			l.RejectionReason = nil
			changes["status"] = StatusApproved
			changes["approved_by"] = approver
			changes["approved_at"] = now
			changes["rejection_reason"] = nil
		default:
			l.Status = StatusRejected
			l.RejectionReason = req.RejectionReason
			changes["status"] = StatusRejected
			changes["rejection_reason"] = *req.RejectionReason
		}

		ok, err := qtx.TransitionStatus(ctx, l.ID, StatusPending, changes)
		if err != nil {
			s.logger.Error("process leave persist failed",
				zap.String("request_id", rid),
				zap.String("leave_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		if !ok {
			return leaveerrors.ErrNotPending
		}

		if l.Status == StatusApproved {
			if err := s.queueApproved(ctx, tx, rid, l); err != nil {
				return err
			}
		}
		out = *l
		return nil
	})
	if err != nil {
		s.logger.Warn("process leave failed",
			zap.String("request_id", rid),
			zap.String("leave_id", id.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("process leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id.String()),
		zap.String("status", out.Status),
	)
	return mapToResponse(out), nil
}

// deductBalance locks the employee row, re-checks the balance and decrements
// it conditionally. Requests that passed the pre-check at apply time can
// still fail here once another approval consumed the balance.
func (s *service) deductBalance(ctx context.Context, qtx Repository, l *LeaveRequest) error {
	if !IsBalanceTracked(l.LeaveType) {
		return nil
	}

	balance, err := qtx.Balance(ctx, l.EmployeeID, l.LeaveType, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrEmployeeNotFound
		}
		return err
	}
	if balance < l.TotalDays {
		return leaveerrors.ErrInsufficientBalance.WithDetails(map[string]any{
			"available": balance,
			"requested": l.TotalDays,
		})
	}

	ok, err := qtx.DecrementBalance(ctx, l.EmployeeID, l.LeaveType, l.TotalDays)
	if err != nil {
		return err
	}
	if !ok {
		return leaveerrors.ErrInsufficientBalance
	}
	return nil
}

func (s *service) queueApproved(ctx context.Context, tx *gorm.DB, rid string, l *LeaveRequest) error {
	event := events.LeaveApprovedEvent{
		EventType:  events.EventLeaveApproved,
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		TotalDays:  l.TotalDays,
		ApprovedBy: l.ApprovedBy.String(),
		OccurredAt: l.ApprovedAt.UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(rid, "leave", l.ID.String(), event.EventType, events.LeaveApprovedTopic, event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("leave approved outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (LeaveResponse, error) {
	var out LeaveRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if l.EmployeeID != actor.ID {
			return leaveerrors.ErrNotLeaveOwner
		}
		switch l.Status {
		case StatusPending:
		case StatusApproved:
			return leaveerrors.ErrCannotCancelApproved
		default:
			return leaveerrors.ErrNotPending
		}

		ok, err := qtx.TransitionStatus(ctx, l.ID, StatusPending, map[string]any{
			"status":     StatusCancelled,
			"updated_at": s.now().UTC(),
		})
		if err != nil {
			return err
		}
		if !ok {
			return leaveerrors.ErrNotPending
		}
		l.Status = StatusCancelled
		out = *l
		return nil
	})
	if err != nil {
		s.logger.Warn("cancel leave failed",
			zap.String("leave_id", id.String()),
			zap.String("actor_id", actor.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success", zap.String("leave_id", id.String()))
	return mapToResponse(out), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error) {
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

func (s *service) ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]LeaveResponse, error) {
	filter.EmployeeID = ""
	return s.find(ctx, filter, []uuid.UUID{actor.ID})
}

func (s *service) find(ctx context.Context, filter ListFilter, scope []uuid.UUID) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter, scope)
	if err != nil {
		s.logger.Error("list leave failed", zap.Error(err))
		return nil, err
	}
	res := make([]LeaveResponse, len(rows))
	for i, l := range rows {
		res[i] = mapToResponse(l)
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

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := s.authz.Authorize(ctx, actor, l.EmployeeID, authz.ActionRead); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(time.DateOnly),
		EndDate:         l.EndDate.Format(time.DateOnly),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		IsEmergency:     l.IsEmergency,
		HandoverNotes:   l.HandoverNotes,
		AppliedAt:       l.AppliedAt.Format(time.RFC3339),
		RejectionReason: l.RejectionReason,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
