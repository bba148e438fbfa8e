package authz

import (
	"context"
	"errors"

	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxManagerChainDepth bounds the reporting-line walk on corrupted data.
const MaxManagerChainDepth = 64

const statusTerminated = "terminated"

//go:generate mockgen -source=engine.go -destination=mock/engine_mock.go -package=mock
type Engine interface {
	CurrentActor(ctx context.Context, actor domain.Actor) (domain.Actor, error)
	CanAccess(ctx context.Context, actor domain.Actor, targetID uuid.UUID, action Action, fields ...string) (Decision, error)
	Authorize(ctx context.Context, actor domain.Actor, targetID uuid.UUID, action Action, fields ...string) error
	AuthorizeUpdate(ctx context.Context, actor domain.Actor, targetID uuid.UUID, fields []string) error
	EnsureNoCycle(ctx context.Context, employeeID, newManagerID uuid.UUID) error
}

type engine struct {
	repo   Repository
	logger *zap.Logger
}

func NewEngine(repo Repository, logger ...*zap.Logger) Engine {
	l := zap.L().Named("authz.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.engine")
	}
	return &engine{repo: repo, logger: l}
}

// CurrentActor swaps the role carried by the token for the one stored now.
// Tier checks made outside the rule list (list scopes, hr-only steps, role
// grants) must run on its result.
func (e *engine) CurrentActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	current, err := e.loadActor(ctx, actor.ID)
	if err != nil {
		return domain.Actor{}, err
	}
	if current.Role != actor.Role {
		e.logger.Info("token role is stale",
			zap.String("actor_id", actor.ID.String()),
			zap.String("token_role", actor.Role.String()),
			zap.String("current_role", current.Role.String()),
		)
	}
	return domain.Actor{ID: actor.ID, Role: current.Role}, nil
}

func (e *engine) loadActor(ctx context.Context, id uuid.UUID) (*Subject, error) {
	current, err := e.repo.FindSubject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authzerrors.ErrActorNotFound
		}
		return nil, err
	}
	if current.Status == statusTerminated {
		return nil, authzerrors.ErrActorInactive
	}
	return current, nil
}

// CanAccess loads the current state of both parties on every call, so a role
// change or a new reporting line takes effect on the next request.
func (e *engine) CanAccess(ctx context.Context, actor domain.Actor, targetID uuid.UUID, action Action, fields ...string) (Decision, error) {
	current, err := e.loadActor(ctx, actor.ID)
	if err != nil {
		return Decision{}, err
	}

	target := current
	if targetID != actor.ID {
		target, err = e.repo.FindSubject(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Decision{}, authzerrors.ErrTargetNotFound
			}
			return Decision{}, err
		}
	}

	d := Decide(*current, *target, action, fields...)
	e.logger.Debug("authorization decided",
		zap.String("actor_id", actor.ID.String()),
		zap.String("actor_role", current.Role.String()),
		zap.String("target_id", targetID.String()),
		zap.String("action", string(action)),
		zap.String("rule", d.Rule),
		zap.Bool("allowed", d.Allowed),
	)
	return d, nil
}

func (e *engine) Authorize(ctx context.Context, actor domain.Actor, targetID uuid.UUID, action Action, fields ...string) error {
	d, err := e.CanAccess(ctx, actor, targetID, action, fields...)
	if err != nil {
		return err
	}
	if d.Allowed {
		return nil
	}
	if len(d.DeniedFields) > 0 {
		return authzerrors.FieldsNotPermitted(d.DeniedFields)
	}
	return authzerrors.ErrForbidden
}

// AuthorizeUpdate tries modify_any first and falls back to the self-service
// allow-list when the actor is editing their own record.
func (e *engine) AuthorizeUpdate(ctx context.Context, actor domain.Actor, targetID uuid.UUID, fields []string) error {
	d, err := e.CanAccess(ctx, actor, targetID, ActionModifyAny)
	if err != nil {
		return err
	}
	if d.Allowed {
		return nil
	}
	if actor.ID != targetID {
		return authzerrors.ErrForbidden
	}
	return e.Authorize(ctx, actor, targetID, ActionModifySelf, fields...)
}

func (e *engine) EnsureNoCycle(ctx context.Context, employeeID, newManagerID uuid.UUID) error {
	if employeeID == newManagerID {
		return authzerrors.ErrManagerCycle
	}

	current := newManagerID
	for depth := 0; depth < MaxManagerChainDepth; depth++ {
		next, err := e.repo.FindManagerID(ctx, current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if *next == employeeID {
			e.logger.Warn("manager cycle rejected",
				zap.String("employee_id", employeeID.String()),
				zap.String("manager_id", newManagerID.String()),
			)
			return authzerrors.ErrManagerCycle
		}
		current = *next
	}
	return authzerrors.ErrManagerChainTooDeep
}

func normalizeRole(s string) domain.Role {
	r, ok := domain.ParseRole(s)
	if !ok {
		return domain.Role("")
	}
	return r
}
