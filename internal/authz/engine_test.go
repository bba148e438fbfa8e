package authz_test

import (
	"context"
	"errors"
	"testing"

	"go-hrms/internal/authz"
	authzerrors "go-hrms/internal/authz/errors"
	"go-hrms/internal/domain"
	"go-hrms/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	subjects map[uuid.UUID]*authz.Subject
	lookups  int
	err      error
}

func newFakeRepo(subjects ...*authz.Subject) *fakeRepo {
	r := &fakeRepo{subjects: map[uuid.UUID]*authz.Subject{}}
	for _, s := range subjects {
		r.subjects[s.ID] = s
	}
	return r
}

func (f *fakeRepo) FindSubject(ctx context.Context, id uuid.UUID) (*authz.Subject, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) FindManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	f.lookups++
	s, ok := f.subjects[id]
	if !ok {
		return nil, nil
	}
	return s.ManagerID, nil
}

func employee(role domain.Role) *authz.Subject {
	return &authz.Subject{ID: uuid.New(), Role: role, Status: "active"}
}

func actorOf(s *authz.Subject) domain.Actor {
	return domain.Actor{ID: s.ID, Role: s.Role}
}

func TestEngine_AuthorizeUpdate_SalaryVersusPhone(t *testing.T) {
	ctx := context.Background()
	a := employee(domain.RoleEmployee)
	b := employee(domain.RoleEmployee)
	engine := authz.NewEngine(newFakeRepo(a, b))

	t.Run("employee A cannot change B salary", func(t *testing.T) {
		err := engine.AuthorizeUpdate(ctx, actorOf(a), b.ID, []string{"basic_salary"})
		assert.ErrorIs(t, err, authzerrors.ErrForbidden)
	})

	t.Run("employee A changes own phone", func(t *testing.T) {
		err := engine.AuthorizeUpdate(ctx, actorOf(a), a.ID, []string{"phone"})
		assert.NoError(t, err)
	})

	t.Run("employee A cannot change own salary", func(t *testing.T) {
		err := engine.AuthorizeUpdate(ctx, actorOf(a), a.ID, []string{"phone", "basic_salary"})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeForbidden, appErr.Code)
		assert.Equal(t, map[string]any{"fields": []string{"basic_salary"}}, appErr.Details)
	})
}

func TestEngine_CanAccess_ReadsCurrentState(t *testing.T) {
	ctx := context.Background()
	manager := employee(domain.RoleManager)
	report := employee(domain.RoleEmployee)
	repo := newFakeRepo(manager, report)
	engine := authz.NewEngine(repo)

	d, err := engine.CanAccess(ctx, actorOf(manager), report.ID, authz.ActionApprove)
	assert.NoError(t, err)
	assert.False(t, d.Allowed)

	// reporting line changes between requests
	repo.subjects[report.ID].ManagerID = &manager.ID

	d, err = engine.CanAccess(ctx, actorOf(manager), report.ID, authz.ActionApprove)
	assert.NoError(t, err)
	assert.True(t, d.Allowed)

	// demotion is visible even though the token still says manager
	repo.subjects[manager.ID].Role = domain.RoleEmployee

	d, err = engine.CanAccess(ctx, actorOf(manager), report.ID, authz.ActionApprove)
	assert.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestEngine_CanAccess_Errors(t *testing.T) {
	ctx := context.Background()
	hr := employee(domain.RoleHR)

	t.Run("unknown actor", func(t *testing.T) {
		engine := authz.NewEngine(newFakeRepo())
		_, err := engine.CanAccess(ctx, actorOf(hr), uuid.New(), authz.ActionRead)
		assert.ErrorIs(t, err, authzerrors.ErrActorNotFound)
	})

	t.Run("unknown target", func(t *testing.T) {
		engine := authz.NewEngine(newFakeRepo(hr))
		_, err := engine.CanAccess(ctx, actorOf(hr), uuid.New(), authz.ActionRead)
		assert.ErrorIs(t, err, authzerrors.ErrTargetNotFound)
	})

	t.Run("terminated actor", func(t *testing.T) {
		gone := employee(domain.RoleAdmin)
		gone.Status = "terminated"
		engine := authz.NewEngine(newFakeRepo(gone))
		_, err := engine.CanAccess(ctx, actorOf(gone), gone.ID, authz.ActionRead)
		assert.ErrorIs(t, err, authzerrors.ErrActorInactive)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := newFakeRepo(hr)
		repo.err = errors.New("connection reset")
		engine := authz.NewEngine(repo)
		_, err := engine.CanAccess(ctx, actorOf(hr), hr.ID, authz.ActionRead)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestEngine_EnsureNoCycle(t *testing.T) {
	ctx := context.Background()

	// ceo <- vp <- lead
	ceo := employee(domain.RoleManager)
	vp := employee(domain.RoleManager)
	vp.ManagerID = &ceo.ID
	lead := employee(domain.RoleManager)
	lead.ManagerID = &vp.ID
	engine := authz.NewEngine(newFakeRepo(ceo, vp, lead))

	assert.NoError(t, engine.EnsureNoCycle(ctx, uuid.New(), lead.ID))
	assert.ErrorIs(t, engine.EnsureNoCycle(ctx, ceo.ID, lead.ID), authzerrors.ErrManagerCycle)
	assert.ErrorIs(t, engine.EnsureNoCycle(ctx, vp.ID, vp.ID), authzerrors.ErrManagerCycle)

	t.Run("corrupted loop is bounded", func(t *testing.T) {
		x := employee(domain.RoleEmployee)
		y := employee(domain.RoleEmployee)
		x.ManagerID = &y.ID
		y.ManagerID = &x.ID
		repo := newFakeRepo(x, y)
		engine := authz.NewEngine(repo)

		err := engine.EnsureNoCycle(ctx, uuid.New(), x.ID)

		assert.ErrorIs(t, err, authzerrors.ErrManagerChainTooDeep)
		assert.Equal(t, authz.MaxManagerChainDepth, repo.lookups)
	})
}

func TestEngine_CurrentActor(t *testing.T) {
	ctx := context.Background()
	demoted := employee(domain.RoleHR)
	gone := employee(domain.RoleManager)
	gone.Status = "terminated"
	engine := authz.NewEngine(newFakeRepo(demoted, gone))

	t.Run("stored role replaces the token role", func(t *testing.T) {
		got, err := engine.CurrentActor(ctx, domain.Actor{ID: demoted.ID, Role: domain.RoleAdmin})
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleHR, got.Role)
		assert.Equal(t, demoted.ID, got.ID)
	})

	t.Run("terminated", func(t *testing.T) {
		_, err := engine.CurrentActor(ctx, actorOf(gone))
		assert.ErrorIs(t, err, authzerrors.ErrActorInactive)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := engine.CurrentActor(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, authzerrors.ErrActorNotFound)
	})
}
