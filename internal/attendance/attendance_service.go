package attendance

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/shared/config"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// maxClockSkew is how far a device timestamp may drift from the server clock.
	maxClockSkew = 2 * time.Minute
	maxShift     = 24 * time.Hour
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, actor domain.Actor, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, actor domain.Actor, id uuid.UUID, req ClockOutRequest) (AttendanceResponse, error)
	UpsertManualEntry(ctx context.Context, actor domain.Actor, req ManualEntryRequest) (AttendanceResponse, bool, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]AttendanceResponse, error)
	Summary(ctx context.Context, actor domain.Actor, employeeID uuid.UUID, month, year int) (SummaryResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	authz     authz.Engine
	loc       *time.Location
	lateAfter time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, engine authz.Engine, cfg config.AttendanceConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	lateAfter := cfg.LateAfter
	if lateAfter <= 0 {
		lateAfter = 9*60 + 15
	}
	return &service{
		db:        db,
		repo:      repo,
		authz:     engine,
		loc:       cfg.Location(),
		lateAfter: time.Duration(lateAfter) * time.Minute,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) ClockIn(ctx context.Context, actor domain.Actor, req ClockInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	ts, err := s.stamp(req.Timestamp)
	if err != nil {
		s.logger.Warn("clock in timestamp rejected",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.ID.String()),
			zap.Time("timestamp", *req.Timestamp),
		)
		return AttendanceResponse{}, err
	}
	local := ts.In(s.loc)
	date := dateOf(local)

	status := req.Status
	if status == "" || status == StatusPresent {
		status = StatusPresent
		if local.Sub(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)) > s.lateAfter {
			status = StatusLate
		}
	}

	s.logger.Debug("clock in requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.ID.String()),
		zap.String("date", date.Format(time.DateOnly)),
	)

	rec := &Record{
		ID:             uuid.New(),
		EmployeeID:     actor.ID,
		AttendanceDate: date,
		ClockIn:        ts.UTC(),
		Status:         status,
		Notes:          req.Notes,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		_, err := qtx.FindByEmployeeAndDate(ctx, actor.ID, date)
		if err == nil {
			return attendanceerrors.ErrAlreadyClockedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// unique index tetap jadi penjaga terakhir untuk request paralel
		if err := qtx.Create(ctx, rec); err != nil {
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("clock in failed",
			zap.String("request_id", rid),
			zap.String("employee_id", actor.ID.String()),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in success",
		zap.String("record_id", rec.ID.String()),
		zap.String("status", rec.Status),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ClockOut(ctx context.Context, actor domain.Actor, id uuid.UUID, req ClockOutRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	ts, err := s.stamp(req.Timestamp)
	if err != nil {
		s.logger.Warn("clock out timestamp rejected",
			zap.String("request_id", rid),
			zap.String("record_id", id.String()),
			zap.Time("timestamp", *req.Timestamp),
		)
		return AttendanceResponse{}, err
	}

	var out Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		rec, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if rec.EmployeeID != actor.ID {
			return attendanceerrors.ErrNotRecordOwner
		}
		if rec.ClockOut != nil {
			return attendanceerrors.ErrAlreadyClockedOut
		}
		if !ts.After(rec.ClockIn) {
			return attendanceerrors.ErrClockOutBeforeClockIn
		}

		clockOut := ts.UTC()
		rec.ClockOut = &clockOut
		if req.BreakMinutes != nil {
			rec.BreakMinutes = *req.BreakMinutes
		}
		if req.Notes != nil {
			rec.Notes = *req.Notes
		}
		rec.recompute()

		if err := qtx.Update(ctx, rec); err != nil {
			s.logger.Error("clock out persist failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}
		out = *rec
		return nil
	})
	if err != nil {
		s.logger.Warn("clock out failed",
			zap.String("request_id", rid),
			zap.String("record_id", id.String()),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out success",
		zap.String("record_id", id.String()),
		zap.Float64("total_hours", out.TotalHours),
	)
	return mapToResponse(out), nil
}

// UpsertManualEntry reports whether a new record was created.
func (s *service) UpsertManualEntry(ctx context.Context, actor domain.Actor, req ManualEntryRequest) (AttendanceResponse, bool, error) {
	rid := contextutil.GetRequestID(ctx)
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, false, attendanceerrors.ErrInvalidRecordID
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, time.UTC)
	if err != nil {
		return AttendanceResponse{}, false, attendanceerrors.ErrInvalidDate
	}
	if req.ClockOut != nil && !req.ClockOut.After(req.ClockIn) {
		return AttendanceResponse{}, false, attendanceerrors.ErrClockOutBeforeClockIn
	}
	if !dateOf(req.ClockIn.In(s.loc)).Equal(date) {
		return AttendanceResponse{}, false, attendanceerrors.ErrClockInOutsideDate
	}
	if req.ClockOut != nil && req.ClockOut.Sub(req.ClockIn) > maxShift {
		return AttendanceResponse{}, false, attendanceerrors.ErrShiftTooLong
	}

	if err := s.authz.Authorize(ctx, actor, employeeID, authz.ActionApprove); err != nil {
		s.logger.Warn("manual attendance denied",
			zap.String("actor_id", actor.ID.String()),
			zap.String("employee_id", employeeID.String()),
		)
		return AttendanceResponse{}, false, err
	}

	status := req.Status
	if status == "" {
		status = StatusPresent
	}
	now := s.now().UTC()
	approver := actor.ID

	var (
		out     Record
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		rec, err := qtx.FindByEmployeeAndDate(ctx, employeeID, date)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = &Record{ID: uuid.New(), EmployeeID: employeeID, AttendanceDate: date}
			created = true
		case err != nil:
			return err
		}

		rec.ClockIn = req.ClockIn.UTC()
		rec.ClockOut = nil
		if req.ClockOut != nil {
			co := req.ClockOut.UTC()
			rec.ClockOut = &co
		}
		rec.BreakMinutes = req.BreakMinutes
		rec.Status = status
		rec.Notes = req.Notes
		rec.IsManualEntry = true
		rec.ApprovedBy = &approver
		rec.ApprovedAt = &now
		rec.recompute()

		if created {
			err = qtx.Create(ctx, rec)
		} else {
			err = qtx.Update(ctx, rec)
		}
		if err != nil {
			s.logger.Error("manual attendance persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		out = *rec
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, false, err
	}

	s.logger.Info("manual attendance saved",
		zap.String("record_id", out.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Bool("created", created),
	)
	return mapToResponse(out), created, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]AttendanceResponse, error) {
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

	rows, err := s.repo.FindAll(ctx, filter, scope)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
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

func (s *service) Summary(ctx context.Context, actor domain.Actor, employeeID uuid.UUID, month, year int) (SummaryResponse, error) {
	if month < 1 || month > 12 || year < 2020 {
		return SummaryResponse{}, attendanceerrors.ErrInvalidPeriod
	}
	if err := s.authz.Authorize(ctx, actor, employeeID, authz.ActionRead); err != nil {
		return SummaryResponse{}, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	counts, err := s.repo.CountByStatus(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("attendance summary failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
		return SummaryResponse{}, err
	}
	return summarize(employeeID, month, year, counts), nil
}

// summarize folds the per-status rows; late, half-day and remote days all
// count as present.
func summarize(employeeID uuid.UUID, month, year int, counts []StatusCount) SummaryResponse {
	out := SummaryResponse{EmployeeID: employeeID.String(), Month: month, Year: year}
	for _, c := range counts {
		out.Days += c.Days
		out.TotalHours += c.Hours
		switch c.Status {
		case StatusAbsent:
			out.Absent += c.Days
			continue
		case StatusLate:
			out.Late += c.Days
		case StatusHalfDay:
			out.HalfDay += c.Days
		case StatusWorkFromHome:
			out.WorkFromHome += c.Days
		}
		out.Present += c.Days
	}
	out.TotalHours = math.Round(out.TotalHours*100) / 100
	return out
}

// stamp returns the server clock, or the device timestamp when it is within
// maxClockSkew of it. Other days go through UpsertManualEntry.
func (s *service) stamp(ts *time.Time) (time.Time, error) {
	now := s.now()
	if ts == nil {
		return now, nil
	}
	if d := ts.Sub(now); d > maxClockSkew || d < -maxClockSkew {
		return time.Time{}, attendanceerrors.ErrTimestampSkew
	}
	return *ts, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(r Record) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             r.ID.String(),
		EmployeeID:     r.EmployeeID.String(),
		AttendanceDate: r.AttendanceDate.Format(time.DateOnly),
		ClockIn:        r.ClockIn.Format(time.RFC3339),
		BreakMinutes:   r.BreakMinutes,
		TotalHours:     r.TotalHours,
		Status:         r.Status,
		Notes:          r.Notes,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		IsManualEntry:  r.IsManualEntry,
	}
	if r.ClockOut != nil {
		v := r.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if r.ApprovedBy != nil {
		resp.ApprovedBy = r.ApprovedBy.String()
	}
	return resp
}
