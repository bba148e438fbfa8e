package performance

import (
	"context"
	"slices"
	"time"

	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	performanceerrors "go-hrms/internal/performance/errors"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=performance_service.go -destination=mock/performance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateReviewRequest) (ReviewResponse, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateReviewRequest) (ReviewResponse, error)
	Submit(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error)
	Acknowledge(ctx context.Context, actor domain.Actor, id uuid.UUID, req AcknowledgeRequest) (ReviewResponse, error)
	ManagerApprove(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error)
	HRApprove(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error)
	List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ReviewResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ReviewResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	authz  authz.Engine
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, engine authz.Engine, logger ...*zap.Logger) Service {
	l := zap.L().Named("performance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("performance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		authz:  engine,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateReviewRequest) (ReviewResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create review requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("quarter", req.Quarter),
		zap.Int("year", req.Year),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ReviewResponse{}, performanceerrors.ErrInvalidEmployeeID
	}
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		return ReviewResponse{}, err
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		return ReviewResponse{}, err
	}
	if end.Before(start) {
		return ReviewResponse{}, performanceerrors.ErrInvalidPeriod
	}

	actor, err = s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !domain.AtLeast(actor.Role, domain.RoleManager) {
		return ReviewResponse{}, authzerrors.ErrForbidden
	}
	if err := s.authz.Authorize(ctx, actor, employeeID, authz.ActionApprove); err != nil {
		s.logger.Warn("create review denied",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.ID.String()),
			zap.String("employee_id", employeeID.String()),
		)
		return ReviewResponse{}, err
	}

	review := Review{
		ID:                  uuid.New(),
		EmployeeID:          employeeID,
		ReviewerID:          actor.ID,
		Quarter:             req.Quarter,
		Year:                req.Year,
		PeriodStart:         start,
		PeriodEnd:           end,
		Goals:               toGoals(req.Goals),
		Competencies:        toCompetencies(req.Competencies),
		Achievements:        req.Achievements,
		AreasForImprovement: req.AreasForImprovement,
		ReviewerComments:    req.ReviewerComments,
		Status:              StatusDraft,
	}
	review = RecomputeRating(review)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsForPeriod(ctx, employeeID, req.Quarter, req.Year)
		if err != nil {
			return err
		}
		if exists {
			return performanceerrors.ErrDuplicateReview
		}
		if err := qtx.Create(ctx, &review); err != nil {
			s.logger.Error("create review persist failed",
				zap.String("request_id", rid),
				zap.Error(err),
			)
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("create review failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return ReviewResponse{}, err
	}

	s.logger.Info("create review success",
		zap.String("request_id", rid),
		zap.String("review_id", review.ID.String()),
	)
	return mapToResponse(review), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateReviewRequest) (ReviewResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return ReviewResponse{}, err
	}

	var out Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		review, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !canEdit(actor, *review) {
			return performanceerrors.ErrNotReviewer
		}
		if review.Status == StatusApproved {
			return performanceerrors.ErrReviewLocked
		}

		if req.Goals != nil {
			review.Goals = toGoals(*req.Goals)
		}
		if req.Competencies != nil {
			review.Competencies = toCompetencies(*req.Competencies)
		}
		if req.Achievements != nil {
			review.Achievements = *req.Achievements
		}
		if req.AreasForImprovement != nil {
			review.AreasForImprovement = *req.AreasForImprovement
		}
		if req.ReviewerComments != nil {
			review.ReviewerComments = *req.ReviewerComments
		}

		recomputed := RecomputeRating(*review)
		if err := qtx.Update(ctx, &recomputed); err != nil {
			s.logger.Error("update review persist failed",
				zap.String("request_id", rid),
				zap.String("review_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		out = recomputed
		return nil
	})
	if err != nil {
		s.logger.Warn("update review failed",
			zap.String("request_id", rid),
			zap.String("review_id", id.String()),
			zap.Error(err),
		)
		return ReviewResponse{}, err
	}

	s.logger.Info("update review success", zap.String("review_id", id.String()))
	return mapToResponse(out), nil
}

// step is one edge of the review workflow. guard runs after the row is
// locked and before the status check.
type step struct {
	name  string
	from  string
	to    string
	guard func(ctx context.Context, actor domain.Actor, r *Review) error
	mark  func(actor domain.Actor, r *Review, now time.Time)
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error) {
	return s.advance(ctx, actor, id, step{
		name: "submit",
		from: StatusDraft,
		to:   StatusPendingEmployeeReview,
		guard: func(ctx context.Context, actor domain.Actor, r *Review) error {
			if !canEdit(actor, *r) {
				return performanceerrors.ErrNotReviewer
			}
			return nil
		},
	})
}

func (s *service) Acknowledge(ctx context.Context, actor domain.Actor, id uuid.UUID, req AcknowledgeRequest) (ReviewResponse, error) {
	return s.advance(ctx, actor, id, step{
		name: "acknowledge",
		from: StatusPendingEmployeeReview,
		to:   StatusPendingManagerReview,
		guard: func(ctx context.Context, actor domain.Actor, r *Review) error {
			if actor.ID != r.EmployeeID {
				return performanceerrors.ErrNotReviewOwner
			}
			return nil
		},
		mark: func(actor domain.Actor, r *Review, now time.Time) {
			r.EmployeeAcknowledged = true
			r.EmployeeAcknowledgedAt = &now
			if req.EmployeeComments != "" {
				r.EmployeeComments = req.EmployeeComments
			}
		},
	})
}

func (s *service) ManagerApprove(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error) {
	return s.advance(ctx, actor, id, step{
		name: "manager_approve",
		from: StatusPendingManagerReview,
		to:   StatusCompleted,
		guard: func(ctx context.Context, actor domain.Actor, r *Review) error {
			return s.authz.Authorize(ctx, actor, r.EmployeeID, authz.ActionApprove)
		},
		mark: func(actor domain.Actor, r *Review, now time.Time) {
			r.ManagerApproved = true
			r.ManagerApprovedAt = &now
		},
	})
}

func (s *service) HRApprove(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error) {
	return s.advance(ctx, actor, id, step{
		name: "hr_approve",
		from: StatusCompleted,
		to:   StatusApproved,
		guard: func(ctx context.Context, actor domain.Actor, r *Review) error {
			if !domain.AtLeast(actor.Role, domain.RoleHR) {
				return authzerrors.ErrForbidden
			}
			return nil
		},
		mark: func(actor domain.Actor, r *Review, now time.Time) {
			by := actor.ID
			r.HRApproved = true
			r.HRApprovedAt = &now
			r.HRApprovedBy = &by
		},
	})
}

func (s *service) advance(ctx context.Context, actor domain.Actor, id uuid.UUID, st step) (ReviewResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("review transition requested",
		zap.String("request_id", rid),
		zap.String("review_id", id.String()),
		zap.String("step", st.name),
		zap.String("actor_id", actor.ID.String()),
	)

	// guard dan mark memakai role yang tersimpan sekarang
	actor, err := s.authz.CurrentActor(ctx, actor)
	if err != nil {
		return ReviewResponse{}, err
	}

	var out Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		review, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := st.guard(ctx, actor, review); err != nil {
			return err
		}
		if review.Status != st.from {
			return performanceerrors.ErrInvalidTransition.WithDetails(map[string]string{
				"status":   review.Status,
				"expected": st.from,
			})
		}

		review.Status = st.to
		if st.mark != nil {
			st.mark(actor, review, s.now().UTC())
		}
		if err := qtx.Update(ctx, review); err != nil {
			s.logger.Error("review transition persist failed",
				zap.String("request_id", rid),
				zap.String("review_id", id.String()),
				zap.Error(err),
			)
			return err
		}
		out = *review
		return nil
	})
	if err != nil {
		s.logger.Warn("review transition failed",
			zap.String("request_id", rid),
			zap.String("review_id", id.String()),
			zap.String("step", st.name),
			zap.Error(err),
		)
		return ReviewResponse{}, err
	}

	s.logger.Info("review transition success",
		zap.String("request_id", rid),
		zap.String("review_id", id.String()),
		zap.String("status", out.Status),
	)
	return mapToResponse(out), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ReviewResponse, error) {
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

func (s *service) ListMine(ctx context.Context, actor domain.Actor, filter ListFilter) ([]ReviewResponse, error) {
	filter.EmployeeID = ""
	return s.find(ctx, filter, []uuid.UUID{actor.ID})
}

func (s *service) find(ctx context.Context, filter ListFilter, scope []uuid.UUID) ([]ReviewResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter, scope)
	if err != nil {
		s.logger.Error("list reviews failed", zap.Error(err))
		return nil, err
	}
	res := make([]ReviewResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

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

// GetByID lets the reviewer read a review even after the employee moved to
// another manager.
func (s *service) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (ReviewResponse, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ReviewResponse{}, mapRepositoryError(err)
	}
	if review.ReviewerID != actor.ID {
		if err := s.authz.Authorize(ctx, actor, review.EmployeeID, authz.ActionRead); err != nil {
			return ReviewResponse{}, err
		}
	}
	return mapToResponse(*review), nil
}

func canEdit(actor domain.Actor, r Review) bool {
	return actor.ID == r.ReviewerID || domain.AtLeast(actor.Role, domain.RoleHR)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, performanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func toGoals(in []GoalInput) []Goal {
	goals := make([]Goal, len(in))
	for i, g := range in {
		status := g.Status
		if status == "" {
			status = GoalNotStarted
		}
		goals[i] = Goal{
			Title:       g.Title,
			Description: g.Description,
			Weight:      g.Weight,
			Status:      status,
			Score:       g.Score,
		}
	}
	return goals
}

func toCompetencies(in CompetencyInput) Competencies {
	return Competencies{
		TechnicalSkills: in.TechnicalSkills,
		Communication:   in.Communication,
		Teamwork:        in.Teamwork,
		Leadership:      in.Leadership,
		ProblemSolving:  in.ProblemSolving,
		Initiative:      in.Initiative,
		Punctuality:     in.Punctuality,
		QualityOfWork:   in.QualityOfWork,
	}
}

func mapToResponse(r Review) ReviewResponse {
	goals := make([]GoalResponse, len(r.Goals))
	for i, g := range r.Goals {
		goals[i] = GoalResponse(g)
	}
	c := r.Competencies
	resp := ReviewResponse{
		ID:          r.ID.String(),
		EmployeeID:  r.EmployeeID.String(),
		ReviewerID:  r.ReviewerID.String(),
		Quarter:     r.Quarter,
		Year:        r.Year,
		PeriodStart: r.PeriodStart.Format(time.DateOnly),
		PeriodEnd:   r.PeriodEnd.Format(time.DateOnly),
		Goals:       goals,
		Competencies: CompetencyInput{
			TechnicalSkills: c.TechnicalSkills,
			Communication:   c.Communication,
			Teamwork:        c.Teamwork,
			Leadership:      c.Leadership,
			ProblemSolving:  c.ProblemSolving,
			Initiative:      c.Initiative,
			Punctuality:     c.Punctuality,
			QualityOfWork:   c.QualityOfWork,
		},
		OverallRating:        r.OverallRating,
		PerformanceLevel:     r.PerformanceLevel,
		Achievements:         r.Achievements,
		AreasForImprovement:  r.AreasForImprovement,
		ReviewerComments:     r.ReviewerComments,
		EmployeeComments:     r.EmployeeComments,
		Status:               r.Status,
		EmployeeAcknowledged: r.EmployeeAcknowledged,
		ManagerApproved:      r.ManagerApproved,
		HRApproved:           r.HRApproved,
	}
	resp.EmployeeAcknowledgedAt = formatTime(r.EmployeeAcknowledgedAt)
	resp.ManagerApprovedAt = formatTime(r.ManagerApprovedAt)
	resp.HRApprovedAt = formatTime(r.HRApprovedAt)
	if r.HRApprovedBy != nil {
		v := r.HRApprovedBy.String()
		resp.HRApprovedBy = &v
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}
