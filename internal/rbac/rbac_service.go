package rbac

import (
	"context"
	"sync"

	"go-hrms/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListPermissions() ([]PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy rebuilds the role hierarchy and grants. Route-level grants only
// change on deploy or through role_permissions, so this runs at start-up.
func (s *service) LoadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	roles := domain.Roles()
	for i := 0; i+1 < len(roles); i++ {
		if _, err := s.enforcer.AddGroupingPolicy(string(roles[i]), string(roles[i+1])); err != nil {
			return err
		}
	}

	for _, p := range defaultPolicies {
		if _, err := s.enforcer.AddPolicy(string(p.role), p.resource, p.action); err != nil {
			return err
		}
	}

	extra, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		return err
	}
	for _, rp := range extra {
		if _, ok := domain.ParseRole(rp.Role); !ok {
			s.logger.Warn("skip role permission with unknown role", zap.String("role", rp.Role))
			continue
		}
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded",
		zap.Int("default_policies", len(defaultPolicies)),
		zap.Int("role_permissions", len(extra)),
	)
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(string(role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PermissionResponse
	for _, role := range domain.Roles() {
		perms, err := s.enforcer.GetImplicitPermissionsForUser(string(role))
		if err != nil {
			return nil, err
		}
		for _, p := range perms {
			if len(p) < 3 {
				continue
			}
			out = append(out, PermissionResponse{Role: string(role), Resource: p[1], Action: p[2]})
		}
	}
	return out, nil
}
